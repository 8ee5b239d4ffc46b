// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package spec

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/zintix-labs/fruitslot/configs"
	"github.com/zintix-labs/fruitslot/errs"
	"gopkg.in/yaml.v3"
)

// GetGameSettingByYAML 讀取 YAML 設定、初始化並檢查後回傳。
// 嚴格模式：多寫或拼錯欄位直接報錯。
func GetGameSettingByYAML(data []byte) (*GameSetting, error) {
	gs := &GameSetting{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(gs); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshal yaml")
	}
	if err := gs.Init(); err != nil {
		return nil, errs.Wrap(err, "game setting initialized err")
	}
	return gs, nil
}

// GetGameSettingByJSON 讀取 JSON 設定、初始化並檢查後回傳。
func GetGameSettingByJSON(data []byte) (*GameSetting, error) {
	gs := &GameSetting{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(gs); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshal json")
	}
	if err := gs.Init(); err != nil {
		return nil, errs.Wrap(err, "game setting initialized err")
	}
	return gs, nil
}

// LoadFS 依副檔名（.yaml/.yml/.json）從 fsys 讀取設定。
func LoadFS(fsys fs.FS, name string) (*GameSetting, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errs.Wrap(err, "read config failed: "+name)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return GetGameSettingByYAML(raw)
	case ".json":
		return GetGameSettingByJSON(raw)
	default:
		return nil, errs.Fatalf("unsupported config format: %q", name)
	}
}

// LoadFile 從本機路徑讀取設定。
func LoadFile(path string) (*GameSetting, error) {
	return LoadFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// Default 回傳內建的參考機台（7 種符號、固定賠付表）。
func Default() (*GameSetting, error) {
	return LoadFS(configs.FS, configs.DefaultName)
}
