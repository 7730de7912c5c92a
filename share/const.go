package share

import "time"

// VERSION 版本号
const VERSION = "1.0.1"

// BUILDNAME 制品名称
const BUILDNAME = "dirtree"

// PREFIX 环境变量前缀
const PREFIX = "DIRTREE_"

// PATH 用户级配置目录
const PATH = ".dirtree"

// CONFIG_NAME 配置文件名（不含扩展名）
const CONFIG_NAME = "dirtree"

// DEFAULT_SEPARATOR underline 命名策略下的默认分隔符
const DEFAULT_SEPARATOR = "__"

// DEFAULT_MANIFEST 默认清单输出路径
const DEFAULT_MANIFEST = "dirtree.json"

// DEBOUNCE watch 模式下事件合并间隔
const DEBOUNCE = 100 * time.Millisecond

// DONE_GRACE 取消后宿主等待 emit 钩子结束的最长时间
const DONE_GRACE = 5 * time.Second

const DIR_PERM = 0755

const FILE_PERM = 0644
