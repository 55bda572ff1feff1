package cellml

import (
	"slices"

	"github.com/roach88/bondgraph/internal/ir"
	"github.com/roach88/bondgraph/internal/lump"
)

// Build returns the complete model family for net, units model first. A
// nil res produces the bond-graph models only.
func Build(net *ir.Network, res *lump.Result, voi string) ([]*Model, error) {
	bgModel, err := BuildBGModel(net, voi)
	if err != nil {
		return nil, err
	}
	param, err := BuildParamModel(net)
	if err != nil {
		return nil, err
	}
	local := []*Model{bgModel, param}

	var ss, ssParam, bgss *Model
	if res != nil {
		if ss, err = BuildSteadyStateModel(net.Name, res); err != nil {
			return nil, err
		}
		if ssParam, err = BuildSteadyStateParamModel(net.Name, res); err != nil {
			return nil, err
		}
		if bgss, err = BuildBGSteadyStateParamModel(net, res); err != nil {
			return nil, err
		}
		local = append(local, ss, ssParam, bgss)
	}

	var names []string
	for _, m := range local {
		names = append(names, m.UnitsUsed()...)
	}
	slices.Sort(names)
	units, err := BuildUnitsModel(net.Name, slices.Compact(names))
	if err != nil {
		return nil, err
	}
	for _, m := range local {
		m.ImportUnits(units)
	}

	models := append([]*Model{units}, local...)
	models = append(models, BuildTestModel(bgModel.Name+SuffixTest, bgModel, param))
	if res != nil {
		models = append(models,
			BuildTestModel(ss.Name+SuffixTest, ss, ssParam),
			BuildTestModel(PrefixBGSteady+net.Name+SuffixTest, ss, bgss, param))
	}
	return models, nil
}
