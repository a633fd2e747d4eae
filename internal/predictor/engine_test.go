package predictor

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayakrishna0023/fleet-guardian/internal/nn"
	"github.com/jayakrishna0023/fleet-guardian/internal/persistence"
	"github.com/jayakrishna0023/fleet-guardian/pkg/models"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed*31+7))
}

func quickConfig() Config {
	cfg := DefaultConfig()
	cfg.Epochs = 5
	cfg.SamplesPerDomain = 20
	return cfg
}

type failingStore struct {
	*persistence.MemoryStore
}

func (failingStore) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

func TestEngine_NotReadyBeforeInitialize(t *testing.T) {
	e := New(quickConfig(), persistence.NewMemoryStore(), seeded(1))

	assert.Equal(t, StateUninitialized, e.State())
	assert.False(t, e.Ready())

	_, err := e.PredictEngine(models.EngineFeatures{})
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = e.PredictBrake(models.BrakeFeatures{})
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = e.PredictBattery(models.BatteryFeatures{})
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = e.PredictTire(models.TireFeatures{})
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = e.PredictFuelEfficiency(models.FuelFeatures{})
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = e.GetVehiclePredictions(models.VehicleSnapshot{})
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Empty(t, e.Models())
}

func TestEngine_InitializeTrainsAndPersists(t *testing.T) {
	store := persistence.NewMemoryStore()
	e := New(quickConfig(), store, seeded(2))

	var states []State
	e.SetHooks(Hooks{OnStateChange: func(s State) { states = append(states, s) }})

	require.NoError(t, e.Initialize(context.Background()))

	assert.True(t, e.Ready())
	assert.Equal(t, []State{StateLoading, StateTraining, StateReady}, states)
	assert.Equal(t, 5, store.Len())

	infos := e.Models()
	require.Len(t, infos, 5)
	for i, info := range infos {
		assert.Equal(t, string(models.Domains[i]), info.Domain)
		assert.Equal(t, sourceTrained, info.Source)
		assert.NotNil(t, info.TrainingLoss)
	}
	assert.Equal(t, []int{6, 12, 8, 2}, infos[0].Layers)
	assert.Equal(t, []int{6, 10, 6, 1}, infos[4].Layers)
}

func TestEngine_InitializeIsIdempotent(t *testing.T) {
	e := New(quickConfig(), persistence.NewMemoryStore(), seeded(3))

	var trained atomic.Int32
	e.SetHooks(Hooks{OnTrained: func(models.Domain, float64, time.Duration) { trained.Add(1) }})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, e.Initialize(context.Background()))
		}()
	}
	wg.Wait()

	require.NoError(t, e.Initialize(context.Background()))
	assert.Equal(t, int32(5), trained.Load())
}

func TestEngine_LoadsPersistedModels(t *testing.T) {
	store := persistence.NewMemoryStore()
	first := New(quickConfig(), store, seeded(4))
	require.NoError(t, first.Initialize(context.Background()))

	second := New(quickConfig(), store, seeded(5))
	var trained atomic.Int32
	second.SetHooks(Hooks{OnTrained: func(models.Domain, float64, time.Duration) { trained.Add(1) }})
	require.NoError(t, second.Initialize(context.Background()))

	assert.Zero(t, trained.Load())
	for _, info := range second.Models() {
		assert.Equal(t, sourceLoaded, info.Source)
	}

	features := models.EngineFeatures{EngineTemp: 90, OilPressure: 40, Mileage: 50000, VehicleAge: 3, AvgLoad: 0.5, EngineHours: 2000}
	a, err := first.PredictEngine(features)
	require.NoError(t, err)
	b, err := second.PredictEngine(features)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEngine_LoadFallbackRetrainsAllDomains(t *testing.T) {
	tests := []struct {
		name   string
		damage func(t *testing.T, store *persistence.MemoryStore)
	}{
		{
			name: "missing key",
			damage: func(t *testing.T, store *persistence.MemoryStore) {
				require.NoError(t, store.Delete(context.Background(), "fleet_ml_battery"))
			},
		},
		{
			name: "corrupted payload",
			damage: func(t *testing.T, store *persistence.MemoryStore) {
				require.NoError(t, store.Set(context.Background(), "fleet_ml_tire", "not json"))
			},
		},
		{
			name: "architecture mismatch",
			damage: func(t *testing.T, store *persistence.MemoryStore) {
				net, err := nn.New([]int{5, 10, 6, 1}, 0.1, seeded(99))
				require.NoError(t, err)
				require.NoError(t, persistence.Save(context.Background(), store, "fleet_ml_engine", net))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := persistence.NewMemoryStore()
			require.NoError(t, New(quickConfig(), store, seeded(6)).Initialize(ctx))

			before := map[models.Domain]string{}
			for _, d := range models.Domains {
				v, err := store.Get(ctx, "fleet_ml_"+string(d))
				require.NoError(t, err)
				before[d] = v
			}

			tt.damage(t, store)

			e := New(quickConfig(), store, seeded(7))
			var trained atomic.Int32
			e.SetHooks(Hooks{OnTrained: func(models.Domain, float64, time.Duration) { trained.Add(1) }})
			require.NoError(t, e.Initialize(ctx))

			assert.True(t, e.Ready())
			assert.Equal(t, int32(5), trained.Load())
			for _, d := range models.Domains {
				v, err := store.Get(ctx, "fleet_ml_"+string(d))
				require.NoError(t, err)
				assert.NotEqual(t, before[d], v, "domain %s should be re-persisted", d)
			}
		})
	}
}

func TestEngine_SaveErrorsAreNotReturned(t *testing.T) {
	e := New(quickConfig(), failingStore{persistence.NewMemoryStore()}, seeded(8))

	require.NoError(t, e.Initialize(context.Background()))
	assert.True(t, e.Ready())
}

func TestEngine_InitializeCancelledContext(t *testing.T) {
	e := New(quickConfig(), persistence.NewMemoryStore(), seeded(9))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, e.Initialize(ctx), context.Canceled)
	assert.Equal(t, StateUninitialized, e.State())
}

func TestEngine_RetrainReplacesModels(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	e := New(quickConfig(), store, seeded(10))
	require.NoError(t, e.Initialize(ctx))

	old, err := store.Get(ctx, "fleet_ml_fuel")
	require.NoError(t, err)

	require.NoError(t, e.Retrain(ctx))

	fresh, err := store.Get(ctx, "fleet_ml_fuel")
	require.NoError(t, err)
	assert.NotEqual(t, old, fresh)
	assert.True(t, e.Ready())
}

func TestEngine_ResetStore(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	e := New(quickConfig(), store, seeded(11))
	require.NoError(t, e.Initialize(ctx))

	require.NoError(t, e.ResetStore(ctx))
	assert.Zero(t, store.Len())
}

func TestEngine_CustomKeyPrefix(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	cfg := quickConfig()
	cfg.KeyPrefix = "depot7_"
	e := New(cfg, store, seeded(12))
	require.NoError(t, e.Initialize(ctx))

	_, err := store.Get(ctx, "depot7_engine")
	assert.NoError(t, err)
	assert.Equal(t, "depot7_brake", e.Key(models.DomainBrake))
}
