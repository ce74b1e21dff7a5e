package mutation

import "github.com/jobly-api/jobly/pkg/engine"

// Factory implements engine.MutationFactory
type Factory struct {
	config engine.ValidatorConfig
}

// NewFactory returns a factory whose builders validate with config
func NewFactory(config engine.ValidatorConfig) *Factory {
	return &Factory{config: config}
}

func (f *Factory) NewInsert(table *engine.Table, ex *engine.Executor) engine.InsertMutation {
	b := NewInsertBuilder(table, ex)
	b.config = f.config
	return b
}

func (f *Factory) NewUpdate(table *engine.Table, ex *engine.Executor) engine.UpdateMutation {
	b := NewUpdateBuilder(table, ex)
	b.config = f.config
	return b
}

func (f *Factory) NewDelete(table *engine.Table, ex *engine.Executor) engine.DeleteMutation {
	return NewDeleteBuilder(table, ex)
}

// Register wires the default builders into eng
func Register(eng *engine.Engine) {
	eng.SetMutationFactory(NewFactory(engine.DefaultValidatorConfig()))
}
