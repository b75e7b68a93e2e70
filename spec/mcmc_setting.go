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
	"fmt"
	"slices"

	"github.com/zintix-labs/uqlab/errs"
	"github.com/zintix-labs/uqlab/sdk/dist"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// Algorithm MCMC 核心
type Algorithm string

const (
	MH      Algorithm = "MH"
	MMH     Algorithm = "MMH"
	Stretch Algorithm = "Stretch"
)

// ProposalKind 提議分佈
type ProposalKind string

const (
	ProposalUniform ProposalKind = "Uniform"
	ProposalNormal  ProposalKind = "Normal"
)

// TargetMode 目標密度的形式
type TargetMode string

const (
	JointPDF    TargetMode = "joint_pdf"
	MarginalPDF TargetMode = "marginal_pdf"
)

// Density 已綁定參數的目標密度（可未正規化）
type Density func(x []float64) float64

// MCMCSetting 馬可夫鏈蒙地卡羅設定。
//
// Fields:
//   - Algorithm: MH / MMH / Stretch，預設 MMH
//   - Seed: MH / MMH 為單一列起點（預設零向量）；Stretch 為至少 3 列的初始 ensemble
//   - Jump / NBurn: 抽稀間隔（預設 1）與 burn-in 長度（預設 0）
//   - ProposalType / ProposalScale: 長度 1 會廣播到所有維度；Stretch 只用 scale 的第一個值
//   - TargetType / Target / TargetParams: 目標密度名稱（查分佈註冊表）與參數
//   - JointPdf / MarginalPdf: 程式直接給定的目標密度，優先於 Target
type MCMCSetting struct {
	Algorithm     Algorithm      `yaml:"algorithm"          json:"algorithm"`
	NSamples      int            `yaml:"nsamples"           json:"nsamples"`
	Dimension     int            `yaml:"dimension"          json:"dimension"`
	Seed          [][]float64    `yaml:"seed"               json:"seed"`
	Jump          int            `yaml:"jump"               json:"jump"`
	NBurn         int            `yaml:"nburn"              json:"nburn"`
	ProposalType  []ProposalKind `yaml:"pdf_proposal_type"  json:"pdf_proposal_type"`
	ProposalScale []float64      `yaml:"pdf_proposal_scale" json:"pdf_proposal_scale"`
	TargetType    TargetMode     `yaml:"pdf_target_type"    json:"pdf_target_type"`
	Target        []string       `yaml:"pdf_target"         json:"pdf_target"`
	TargetParams  [][]float64    `yaml:"pdf_target_params"  json:"pdf_target_params"`

	JointPdf    dist.JointDensity   `yaml:"-" json:"-"`
	MarginalPdf []dist.JointDensity `yaml:"-" json:"-"`

	// Init 後的正規化結果
	Proposals []ProposalKind `yaml:"-" json:"-"`
	Scales    []float64      `yaml:"-" json:"-"`
	Joint     Density        `yaml:"-" json:"-"`
	Marginals []Density      `yaml:"-" json:"-"`
	Start     [][]float64    `yaml:"-" json:"-"`
	initFlag  bool
}

// Init 套用預設值、廣播並檢查所有選項；任何錯誤都發生在取樣之前。
func (s *MCMCSetting) Init(reg *dist.Registry) error {
	if s.initFlag {
		return nil
	}
	if s.Algorithm == "" {
		s.Algorithm = MMH
	}
	switch s.Algorithm {
	case MH, MMH, Stretch:
	default:
		return errs.Configf("mcmc: unknown algorithm %q", s.Algorithm)
	}
	if s.NSamples <= 0 {
		return errs.Configf("mcmc: nsamples must be positive, got %d", s.NSamples)
	}
	if s.Jump < 0 {
		return errs.Configf("mcmc: jump must be >= 1, got %d", s.Jump)
	}
	if s.Jump == 0 {
		s.Jump = 1
	}
	if s.NBurn < 0 {
		return errs.Configf("mcmc: nburn must be >= 0, got %d", s.NBurn)
	}
	if s.Algorithm == Stretch && s.NBurn > 0 {
		return errs.Configf("mcmc: Stretch has no burn-in, got nburn %d", s.NBurn)
	}
	if s.Dimension < 0 {
		return errs.Configf("mcmc: dimension must be positive, got %d", s.Dimension)
	}
	if err := s.initSeed(); err != nil {
		return err
	}
	if err := s.initProposal(); err != nil {
		return err
	}
	if err := s.initTarget(reg); err != nil {
		return err
	}
	s.initFlag = true
	return nil
}

func (s *MCMCSetting) initSeed() error {
	if s.Algorithm == Stretch {
		if len(s.Seed) < 3 {
			return errs.Geometryf("mcmc: Stretch needs a seed ensemble of at least 3 walkers, got %d", len(s.Seed))
		}
	} else if len(s.Seed) > 1 {
		return errs.Geometryf("mcmc: %s takes a single seed point, got %d rows", s.Algorithm, len(s.Seed))
	}

	if s.Dimension == 0 {
		s.Dimension = 1
		if len(s.Seed) > 0 {
			s.Dimension = len(s.Seed[0])
		}
	}
	if len(s.Seed) == 0 {
		s.Start = [][]float64{make([]float64, s.Dimension)}
		return nil
	}
	s.Start = make([][]float64, len(s.Seed))
	for i, row := range s.Seed {
		if len(row) != s.Dimension {
			return errs.Geometryf("mcmc: seed row %d has length %d, dimension is %d", i, len(row), s.Dimension)
		}
		s.Start[i] = append([]float64(nil), row...)
	}
	if s.Algorithm == Stretch {
		// 相同的 walker 互為同伴時 candidate 恆等於同伴，鏈不會移動
		for i := 1; i < len(s.Start); i++ {
			for j := 0; j < i; j++ {
				if slices.Equal(s.Start[i], s.Start[j]) {
					return errs.Geometryf("mcmc: Stretch seed rows %d and %d are identical", j, i)
				}
			}
		}
	}
	return nil
}

func (s *MCMCSetting) initProposal() error {
	d := s.Dimension

	types := s.ProposalType
	if len(types) == 0 {
		types = []ProposalKind{ProposalUniform}
	}
	if s.Algorithm == MH && len(types) != 1 {
		return errs.Configf("mcmc: MH takes exactly one proposal type, got %d", len(types))
	}
	if len(types) != 1 && len(types) != d {
		return errs.Configf("mcmc: pdf_proposal_type has %d entries, dimension is %d", len(types), d)
	}
	s.Proposals = make([]ProposalKind, d)
	for i := range s.Proposals {
		p := types[min(i, len(types)-1)]
		if p != ProposalUniform && p != ProposalNormal {
			return errs.Configf("mcmc: unsupported proposal type %q", p)
		}
		s.Proposals[i] = p
	}

	scales := s.ProposalScale
	if len(scales) == 0 {
		scales = []float64{1}
		if s.Algorithm == Stretch {
			scales = []float64{2}
		}
	}
	if s.Algorithm == Stretch {
		if !(scales[0] > 1) {
			return errs.Configf("mcmc: Stretch scale must be > 1, got %v", scales[0])
		}
		s.Scales = []float64{scales[0]}
		return nil
	}
	if len(scales) != 1 && len(scales) != d {
		return errs.Configf("mcmc: pdf_proposal_scale has %d entries, dimension is %d", len(scales), d)
	}
	s.Scales = make([]float64, d)
	for i := range s.Scales {
		v := scales[min(i, len(scales)-1)]
		if !(v > 0) {
			return errs.Configf("mcmc: proposal scale must be positive, got %v", v)
		}
		s.Scales[i] = v
	}
	return nil
}

func (s *MCMCSetting) initTarget(reg *dist.Registry) error {
	switch {
	case s.Algorithm == Stretch:
		s.TargetType = JointPDF
	case s.TargetType == "" && s.Algorithm == MMH && s.JointPdf == nil:
		s.TargetType = MarginalPDF
	case s.TargetType == "":
		s.TargetType = JointPDF
	case s.TargetType != JointPDF && s.TargetType != MarginalPDF:
		return errs.Configf("mcmc: pdf_target_type must be joint_pdf or marginal_pdf, got %q", s.TargetType)
	}

	d := s.Dimension
	params := func(i int) ([]float64, error) {
		switch len(s.TargetParams) {
		case 0:
			return nil, nil
		case 1:
			return s.TargetParams[0], nil
		}
		if len(s.TargetParams) != d {
			return nil, errs.Configf("mcmc: pdf_target_params has %d entries, dimension is %d", len(s.TargetParams), d)
		}
		return s.TargetParams[i], nil
	}

	// 先嘗試建立 marginal 形式
	marginals, err := s.buildMarginals(reg, params)
	if err != nil {
		return err
	}

	if s.TargetType == MarginalPDF {
		if marginals == nil {
			if s.JointPdf != nil {
				return errs.Configf("mcmc: marginal_pdf target requested but only a joint density was given")
			}
			marginals = stdNormalMarginals(d)
		}
		s.Marginals = marginals
		s.Joint = product(marginals)
		return nil
	}

	switch {
	case s.JointPdf != nil:
		p, err := params(0)
		if err != nil {
			return err
		}
		s.Joint = bindJoint(s.JointPdf, p)
	case len(s.Target) == 1:
		f, err := reg.ResolveJoint(s.Target[0])
		if err != nil {
			return errs.Wrap(err, "mcmc")
		}
		p, err := params(0)
		if err != nil {
			return err
		}
		if k, ok := dist.KindByName(s.Target[0]); ok {
			// 內建分佈在此先檢查參數，避免取樣時才得到 NaN
			if _, err := (dist.Distribution{Name: s.Target[0], Kind: k}).Bind(p); err != nil {
				return errs.Wrap(err, "mcmc: pdf_target_params")
			}
		}
		s.Joint = bindJoint(f, p)
	case marginals != nil:
		s.Joint = product(marginals)
	default:
		s.Joint = stdNormalJoint(d)
	}
	return nil
}

// buildMarginals 由 MarginalPdf 或多個 Target 名稱建立逐維密度；都沒給時回傳 nil。
func (s *MCMCSetting) buildMarginals(reg *dist.Registry, params func(int) ([]float64, error)) ([]Density, error) {
	d := s.Dimension
	switch {
	case len(s.MarginalPdf) > 0:
		if len(s.MarginalPdf) != 1 && len(s.MarginalPdf) != d {
			return nil, errs.Configf("mcmc: %d marginal densities given, dimension is %d", len(s.MarginalPdf), d)
		}
		out := make([]Density, d)
		for i := range out {
			p, err := params(i)
			if err != nil {
				return nil, err
			}
			out[i] = bindJoint(s.MarginalPdf[min(i, len(s.MarginalPdf)-1)], p)
		}
		return out, nil
	case len(s.Target) > 1 || (len(s.Target) == 1 && s.TargetType == MarginalPDF):
		if len(s.Target) != 1 && len(s.Target) != d {
			return nil, errs.Configf("mcmc: pdf_target has %d entries, dimension is %d", len(s.Target), d)
		}
		out := make([]Density, d)
		for i := range out {
			name := s.Target[min(i, len(s.Target)-1)]
			dd, err := reg.Resolve(name)
			if err != nil {
				return nil, errs.Wrap(err, "mcmc")
			}
			p, err := params(i)
			if err != nil {
				return nil, err
			}
			u, err := dd.Bind(p)
			if err != nil {
				return nil, errs.Wrap(err, fmt.Sprintf("mcmc: target %d", i))
			}
			out[i] = func(x []float64) float64 { return u.Pdf(x[0]) }
		}
		return out, nil
	}
	return nil, nil
}

func bindJoint(f dist.JointDensity, p []float64) Density {
	return func(x []float64) float64 { return f(x, p) }
}

func product(ms []Density) Density {
	return func(x []float64) float64 {
		prod := 1.0
		for i, m := range ms {
			prod *= m(x[i : i+1])
		}
		return prod
	}
}

func stdNormalMarginals(d int) []Density {
	out := make([]Density, d)
	for i := range out {
		out[i] = func(x []float64) float64 { return distuv.UnitNormal.Prob(x[0]) }
	}
	return out
}

// stdNormalJoint d == 1 為標準常態，d > 1 為零均值、單位共變異的多維常態
func stdNormalJoint(d int) Density {
	if d == 1 {
		return func(x []float64) float64 { return distuv.UnitNormal.Prob(x[0]) }
	}
	eye := mat.NewSymDense(d, nil)
	for i := 0; i < d; i++ {
		eye.SetSym(i, i, 1)
	}
	mvn, _ := distmv.NewNormal(make([]float64, d), eye, nil)
	return mvn.Prob
}
