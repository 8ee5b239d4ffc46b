package configs

import (
	"embed"
)

// DefaultName 是內建參考機台的設定檔名。
const DefaultName = "classic.yaml"

// FS provides the embedded reference machine config.
//
//go:embed *.yaml
var FS embed.FS
