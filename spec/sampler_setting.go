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
	"github.com/zintix-labs/uqlab/errs"
	"github.com/zintix-labs/uqlab/sdk/dist"
	"github.com/zintix-labs/uqlab/sdk/strata"
)

// MCSSetting 蒙地卡羅取樣
type MCSSetting struct {
	DistSetting `yaml:",inline"`
	NSamples    int `yaml:"nsamples" json:"nsamples"`
	initFlag    bool
}

func (s *MCSSetting) Init(reg *dist.Registry) error {
	if s.initFlag {
		return nil
	}
	if s.NSamples <= 0 {
		return errs.Configf("mcs: nsamples must be positive, got %d", s.NSamples)
	}
	if err := s.bind(reg, 0); err != nil {
		return errs.Wrap(err, "mcs")
	}
	s.initFlag = true
	return nil
}

// LHSCriterion 拉丁超立方的點選擇準則
type LHSCriterion string

const (
	LHSRandom    LHSCriterion = "random"
	LHSCentered  LHSCriterion = "centered"
	LHSMaximin   LHSCriterion = "maximin"
	LHSCorrelate LHSCriterion = "correlate"
)

// DefaultLHSIter maximin / correlate 預設嘗試次數
const DefaultLHSIter = 100

// LHSMetrics maximin 可用的距離
var LHSMetrics = map[string]bool{
	"euclidean":   true,
	"sqeuclidean": true,
	"cityblock":   true,
	"chebyshev":   true,
	"minkowski":   true,
	"cosine":      true,
	"correlation": true,
	"canberra":    true,
	"braycurtis":  true,
	"hamming":     true,
	"seuclidean":  true,
	"mahalanobis": true,
}

// booleanMetrics 只對布林向量有意義，連續樣本不支援
var booleanMetrics = map[string]bool{
	"jaccard": true, "dice": true, "kulsinski": true, "matching": true,
	"rogerstanimoto": true, "russellrao": true, "sokalmichener": true,
	"sokalsneath": true, "yule": true,
}

// LHSSetting 拉丁超立方取樣
type LHSSetting struct {
	DistSetting `yaml:",inline"`
	NSamples    int          `yaml:"nsamples"      json:"nsamples"`
	Criterion   LHSCriterion `yaml:"lhs_criterion" json:"lhs_criterion"`
	Metric      string       `yaml:"lhs_metric"    json:"lhs_metric"`
	Iterations  int          `yaml:"lhs_iter"      json:"lhs_iter"`
	initFlag    bool
}

func (s *LHSSetting) Init(reg *dist.Registry) error {
	if s.initFlag {
		return nil
	}
	if s.NSamples <= 0 {
		return errs.Configf("lhs: nsamples must be positive, got %d", s.NSamples)
	}
	switch s.Criterion {
	case "":
		s.Criterion = LHSRandom
	case LHSRandom, LHSCentered, LHSMaximin, LHSCorrelate:
	default:
		return errs.Configf("lhs: unknown criterion %q", s.Criterion)
	}
	if s.Metric == "" {
		s.Metric = "euclidean"
	}
	if booleanMetrics[s.Metric] {
		return errs.Configf("lhs: metric %q needs boolean data", s.Metric)
	}
	if !LHSMetrics[s.Metric] {
		return errs.Configf("lhs: unknown metric %q", s.Metric)
	}
	if s.Iterations < 0 {
		return errs.Configf("lhs: lhs_iter must be >= 0, got %d", s.Iterations)
	}
	if s.Iterations == 0 {
		s.Iterations = DefaultLHSIter
	}
	if err := s.bind(reg, 0); err != nil {
		return errs.Wrap(err, "lhs")
	}
	s.initFlag = true
	return nil
}

// STSSetting 分層取樣，分割來自 Design、InputFile 或程式直接給定的 Strata（擇一）。
type STSSetting struct {
	DistSetting `yaml:",inline"`
	Design      []int          `yaml:"sts_design" json:"sts_design"`
	InputFile   string         `yaml:"input_file" json:"input_file"`
	Strata      *strata.Strata `yaml:"-"          json:"-"`
	NSamples    int            `yaml:"-"          json:"-"`
	initFlag    bool
}

func (s *STSSetting) Init(reg *dist.Registry) error {
	if s.initFlag {
		return nil
	}
	if s.Strata == nil {
		var err error
		switch {
		case len(s.Design) > 0 && s.InputFile != "":
			return errs.Configf("sts: give either sts_design or input_file, not both")
		case len(s.Design) > 0:
			s.Strata, err = strata.New(s.Design)
		case s.InputFile != "":
			s.Strata, err = strata.LoadFile(s.InputFile)
		default:
			return errs.Configf("sts: sts_design or input_file is required")
		}
		if err != nil {
			return errs.Wrap(err, "sts")
		}
	}
	d := s.Strata.Dimension()
	if s.Dimension > 0 && s.Dimension != d {
		return errs.Geometryf("sts: dimension is %d but strata have dimension %d", s.Dimension, d)
	}
	s.unitUniform()
	if err := s.bind(reg, d); err != nil {
		return errs.Wrap(err, "sts")
	}
	s.NSamples = s.Strata.Len()
	s.initFlag = true
	return nil
}

// PSSBlock 部分分層的一個子空間：維度 [Offset, Offset+Size)
type PSSBlock struct {
	Offset int
	Size   int
	Strata *strata.Strata
}

// PSSSetting 部分分層取樣
//
// Fields:
//   - Design: 每個子空間的維度數，總和為 dimension
//   - Strata: 每個子空間在各維的分層數；子空間樣本數為 Strata[i]^Design[i]，必須全部相等
type PSSSetting struct {
	DistSetting `yaml:",inline"`
	Design      []int      `yaml:"pss_design" json:"pss_design"`
	Strata      []int      `yaml:"pss_strata" json:"pss_strata"`
	Blocks      []PSSBlock `yaml:"-"          json:"-"`
	NSamples    int        `yaml:"-"          json:"-"`
	initFlag    bool
}

func (s *PSSSetting) Init(reg *dist.Registry) error {
	if s.initFlag {
		return nil
	}
	if len(s.Design) == 0 {
		return errs.Configf("pss: pss_design is required")
	}
	if len(s.Design) != len(s.Strata) {
		return errs.Configf("pss: pss_design has %d blocks but pss_strata has %d", len(s.Design), len(s.Strata))
	}
	s.Blocks = make([]PSSBlock, len(s.Design))
	offset := 0
	for i, size := range s.Design {
		if size < 1 || s.Strata[i] < 1 {
			return errs.Configf("pss: block %d needs positive design and strata, got %d and %d", i, size, s.Strata[i])
		}
		nstrata := make([]int, size)
		for j := range nstrata {
			nstrata[j] = s.Strata[i]
		}
		st, err := strata.New(nstrata)
		if err != nil {
			return errs.Wrap(err, "pss")
		}
		if i > 0 && st.Len() != s.Blocks[0].Strata.Len() {
			return errs.Geometryf("pss: block %d has %d samples, block 0 has %d", i, st.Len(), s.Blocks[0].Strata.Len())
		}
		s.Blocks[i] = PSSBlock{Offset: offset, Size: size, Strata: st}
		offset += size
	}
	if s.Dimension > 0 && s.Dimension != offset {
		return errs.Geometryf("pss: dimension is %d but pss_design sums to %d", s.Dimension, offset)
	}
	s.unitUniform()
	if err := s.bind(reg, offset); err != nil {
		return errs.Wrap(err, "pss")
	}
	s.NSamples = s.Blocks[0].Strata.Len()
	s.initFlag = true
	return nil
}
