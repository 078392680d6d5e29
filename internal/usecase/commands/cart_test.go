//go:build unit

package commands_test

import (
	"context"
	"testing"

	reqdto "shop-order-engine/internal/handler/dto/request"
	"shop-order-engine/internal/usecase/commands"
	"shop-order-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartEnv struct {
	state    *fakeState
	commands commands.CartCommands
	userID   uuid.UUID
	variant  shared.VariantSnapshot
}

func newCartEnv(t *testing.T) *cartEnv {
	t.Helper()

	variant := shared.VariantSnapshot{
		ID:               uuid.New(),
		ProductName:      "Basic Tee",
		Stock:            5,
		IsActive:         true,
		ProductPublished: true,
	}
	state := &fakeState{
		variants: map[uuid.UUID]*shared.VariantSnapshot{variant.ID: &variant},
	}

	return &cartEnv{
		state:    state,
		commands: commands.NewCartCommands(&fakeUoW{s: state}),
		userID:   uuid.New(),
		variant:  variant,
	}
}

func TestCart_AddItem_SetsLineQuantity(t *testing.T) {
	ctx := context.Background()
	env := newCartEnv(t)

	lineID, err := env.commands.AddItem(ctx, env.userID, reqdto.AddCartItemRequest{
		VariantID: env.variant.ID,
		Quantity:  3,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, lineID)
	assert.Equal(t, int32(3), env.state.upsertedQty[env.variant.ID])

	// A second add states the new quantity outright, it does not accumulate.
	_, err = env.commands.AddItem(ctx, env.userID, reqdto.AddCartItemRequest{
		VariantID: env.variant.ID,
		Quantity:  2,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), env.state.upsertedQty[env.variant.ID])
}

func TestCart_AddItem_QuantityZeroRemovesLine(t *testing.T) {
	ctx := context.Background()
	env := newCartEnv(t)

	lineID, err := env.commands.AddItem(ctx, env.userID, reqdto.AddCartItemRequest{
		VariantID: env.variant.ID,
		Quantity:  0,
	})
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, lineID)
	assert.Equal(t, []uuid.UUID{env.variant.ID}, env.state.deletedVariants)
	assert.Empty(t, env.state.upsertedQty)
}

func TestCart_AddItem_Failures(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name        string
		arrange     func(env *cartEnv) reqdto.AddCartItemRequest
		expectedErr error
	}{
		{
			name: "negative quantity",
			arrange: func(env *cartEnv) reqdto.AddCartItemRequest {
				return reqdto.AddCartItemRequest{VariantID: env.variant.ID, Quantity: -1}
			},
			expectedErr: commands.ErrCartQuantityInvalid,
		},
		{
			name: "unknown variant",
			arrange: func(env *cartEnv) reqdto.AddCartItemRequest {
				return reqdto.AddCartItemRequest{VariantID: uuid.New(), Quantity: 1}
			},
			expectedErr: commands.ErrCartVariantNotFound,
		},
		{
			name: "inactive variant",
			arrange: func(env *cartEnv) reqdto.AddCartItemRequest {
				env.state.variants[env.variant.ID].IsActive = false
				return reqdto.AddCartItemRequest{VariantID: env.variant.ID, Quantity: 1}
			},
			expectedErr: commands.ErrCartVariantNotFound,
		},
		{
			name: "unpublished product",
			arrange: func(env *cartEnv) reqdto.AddCartItemRequest {
				env.state.variants[env.variant.ID].ProductPublished = false
				return reqdto.AddCartItemRequest{VariantID: env.variant.ID, Quantity: 1}
			},
			expectedErr: commands.ErrCartVariantNotFound,
		},
		{
			name: "quantity above stock",
			arrange: func(env *cartEnv) reqdto.AddCartItemRequest {
				return reqdto.AddCartItemRequest{VariantID: env.variant.ID, Quantity: env.variant.Stock + 1}
			},
			expectedErr: commands.ErrInsufficientStock,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newCartEnv(t)
			req := tc.arrange(env)

			lineID, err := env.commands.AddItem(ctx, env.userID, req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Equal(t, uuid.Nil, lineID)
			assert.Empty(t, env.state.upsertedQty)
			assert.Empty(t, env.state.deletedVariants)
		})
	}
}
