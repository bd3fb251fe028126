package strategies

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covertmark/covertmark/pkg/errors"
	"github.com/covertmark/covertmark/pkg/plan"
	"github.com/covertmark/covertmark/pkg/strategymap"
	"github.com/covertmark/covertmark/pkg/types"
)

func noopFactory(types.StrategyDescriptor) (plan.Runner, error) {
	return plan.RunnerFunc(func(context.Context, plan.RunPlan) (plan.RunResult, error) {
		return plan.RunResult{TruePositiveRate: 1}, nil
	}), nil
}

func TestTableResolve(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.Register("sdg", "SDGStrategy", noopFactory))

	r, err := strategymap.Default()
	require.NoError(t, err)
	sgd, err := r.Get("SGD")
	require.NoError(t, err)
	dist, err := r.Get("entropy_dist")
	require.NoError(t, err)

	assert.True(t, table.Bound(sgd))
	assert.False(t, table.Bound(dist))

	f, err := table.Resolve(sgd)
	require.NoError(t, err)
	assert.NotNil(t, f)

	_, err = table.Resolve(dist)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStrategyUnbound))
	assert.Equal(t, "entropy_dist.EntropyStrategy", errors.GetErrorDetails(err)["key"])
}

func TestTableRegisterErrors(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.Register("m", "o", noopFactory))

	tests := []struct {
		name   string
		module string
		object string
		f      Factory
		code   errors.ErrorCode
	}{
		{"duplicate", "m", "o", noopFactory, errors.ErrAlreadyExists},
		{"empty module", "", "o", noopFactory, errors.ErrInvalidInput},
		{"empty object", "m", "", noopFactory, errors.ErrInvalidInput},
		{"nil factory", "m", "other", nil, errors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := table.Register(tt.module, tt.object, tt.f)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
		})
	}
	assert.Equal(t, []string{"m.o"}, table.Keys())
}

func TestTableNew(t *testing.T) {
	table := NewTable()
	desc := types.StrategyDescriptor{Name: "s", Module: "m", Object: "o"}

	_, err := table.New(desc)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStrategyUnbound))

	require.NoError(t, table.Register("m", "o", noopFactory))
	runner, err := table.New(desc)
	require.NoError(t, err)
	res, err := runner.Run(context.Background(), plan.RunPlan{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.TruePositiveRate)

	require.NoError(t, table.Unregister("m", "o"))
	broken := errors.New(errors.ErrInvalidInput, "missing trace")
	require.NoError(t, table.Register("m", "o", func(types.StrategyDescriptor) (plan.Runner, error) {
		return nil, broken
	}))
	_, err = table.New(desc)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, broken))
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
}

func TestDefaultTable(t *testing.T) {
	desc := types.StrategyDescriptor{Name: "test", Module: "strategies_test", Object: "Noop"}
	require.NoError(t, Register("strategies_test", "Noop", noopFactory))
	t.Cleanup(func() {
		_ = Default().Unregister("strategies_test", "Noop")
	})

	assert.True(t, Bound(desc))
	_, err := Resolve(desc)
	assert.NoError(t, err)

	assert.Panics(t, func() {
		MustRegister("strategies_test", "Noop", noopFactory)
	})
}
