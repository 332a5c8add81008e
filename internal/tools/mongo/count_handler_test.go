package mongo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mongo-mcp/mcp/internal/database/mocks"
	"github.com/mongo-mcp/mcp/internal/tools"
	"github.com/mongo-mcp/mcp/internal/tools/mongo"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/mock/gomock"
)

func TestCountHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("filter defaults to every document", func(t *testing.T) {
		mockDB := mocks.NewMockService(ctrl)
		mockDB.EXPECT().Ready().Return(true)
		mockDB.EXPECT().CountDocuments(gomock.Any(), "orders", bson.D{}).Return(int64(12), nil)

		handler := mongo.CountHandler(&tools.ToolDependencies{DBService: mockDB})
		result, err := handler(context.Background(), newRequest(map[string]any{
			"collection": "orders",
		}))

		assert.NoError(t, err)
		assert.Equal(t, "Count: 12", resultText(t, result))
	})

	t.Run("with filter", func(t *testing.T) {
		mockDB := mocks.NewMockService(ctrl)
		mockDB.EXPECT().Ready().Return(true)
		mockDB.EXPECT().CountDocuments(gomock.Any(), "orders", bson.D{{Key: "item", Value: "widget"}}).Return(int64(0), nil)

		handler := mongo.CountHandler(&tools.ToolDependencies{DBService: mockDB})
		result, err := handler(context.Background(), newRequest(map[string]any{
			"collection": "orders",
			"filter":     `{"item":"widget"}`,
		}))

		assert.NoError(t, err)
		assert.Equal(t, "Count: 0", resultText(t, result))
	})

	t.Run("malformed filter", func(t *testing.T) {
		mockDB := mocks.NewMockService(ctrl)
		mockDB.EXPECT().Ready().Return(true)

		handler := mongo.CountHandler(&tools.ToolDependencies{DBService: mockDB})
		result, err := handler(context.Background(), newRequest(map[string]any{
			"collection": "orders",
			"filter":     `{"item"}`,
		}))

		assert.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "Error counting documents: invalid JSON document")
	})

	t.Run("store error", func(t *testing.T) {
		mockDB := mocks.NewMockService(ctrl)
		mockDB.EXPECT().Ready().Return(true)
		mockDB.EXPECT().CountDocuments(gomock.Any(), "orders", gomock.Any()).Return(int64(0), errors.New("connection reset"))

		handler := mongo.CountHandler(&tools.ToolDependencies{DBService: mockDB})
		result, err := handler(context.Background(), newRequest(map[string]any{
			"collection": "orders",
		}))

		assert.NoError(t, err)
		assert.Equal(t, "Error counting documents: connection reset", resultText(t, result))
	})
}
