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

package stats

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// SampleReportRender 定義輸出行為
type SampleReportRender interface {
	Write(w io.Writer, r *SampleReport) error
}

// RenderByFormat 依格式名稱取得渲染器，未知格式回傳 false
func RenderByFormat(format string) (SampleReportRender, bool) {
	switch format {
	case "", "json":
		return &JsonSampleReportRender{}, true
	case "yaml", "yml":
		return &YAMLSampleReportRender{}, true
	}
	return nil, false
}

// Json渲染
type JsonSampleReportRender struct{}

func (jr *JsonSampleReportRender) Write(w io.Writer, r *SampleReport) error {
	return json.NewEncoder(w).Encode(r)
}

// YAML渲染
type YAMLSampleReportRender struct{}

func (yr *YAMLSampleReportRender) Write(w io.Writer, r *SampleReport) error {
	// 只有「最內層的一維陣列」才輸出成 flow style：[..., ...]
	return forceReadableList(w, r)
}

// YAML 內層方法
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}
	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

// 沒有子 sequence 的 sequence 改成 flow style，外層維度保持 block
func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
		return

	case yaml.SequenceNode:
		hasChildSeq := false
		for _, c := range n.Content {
			if c != nil && (c.Kind == yaml.SequenceNode || c.Kind == yaml.MappingNode) {
				hasChildSeq = true
				break
			}
		}
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
		if !hasChildSeq {
			n.Style = yaml.FlowStyle
		}
		return

	default:
		return
	}
}
