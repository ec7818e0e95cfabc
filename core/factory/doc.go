// Package factory is a small generic registry that instantiates pluggable
// modules (battery models, mission observers) from configuration. A module
// is described by a type string and a map of raw settings which the
// registered factory decodes into its own typed struct.
//
//	reg := factory.NewRegistry[battery.Model]()
//	reg.Register("linear", func(conf map[string]any) (battery.Model, error) {
//	    var l battery.Linear
//	    return l, factory.Decode(conf, &l)
//	})
//	m, err := reg.Create(factory.ModuleConfig{Type: "linear", Conf: map[string]any{"per_metre": 0.1}})
package factory
