package shared_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"smashroom/shared"
	"smashroom/shared/cache/mocks"
	"smashroom/shared/constant"
	"smashroom/shared/dto"

	"go.uber.org/mock/gomock"
)

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *bool
	}{
		{name: "empty string returns nil", input: "", expected: nil},
		{name: "true", input: "true", expected: boolPtr(true)},
		{name: "false", input: "false", expected: boolPtr(false)},
		{name: "1", input: "1", expected: boolPtr(true)},
		{name: "0", input: "0", expected: boolPtr(false)},
		{name: "upper TRUE", input: "TRUE", expected: boolPtr(true)},
		{name: "invalid string returns nil", input: "active", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.ConvertStringToBool(tt.input)

			if tt.expected == nil {
				if result != nil {
					t.Errorf("expected nil, got %v", *result)
				}

				return
			}

			if result == nil {
				t.Errorf("expected %v, got nil", *tt.expected)
			} else if *result != *tt.expected {
				t.Errorf("expected %v, got %v", *tt.expected, *result)
			}
		})
	}
}

func TestConvertStringToInt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
		wantErr  bool
	}{
		{name: "plain number", input: "8", expected: 8},
		{name: "surrounding spaces", input: " 12 ", expected: 12},
		{name: "negative", input: "-3", expected: -3},
		{name: "empty", input: "", wantErr: true},
		{name: "not a number", input: "eight", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := shared.ConvertStringToInt(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}

			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestConvertStringToInt64(t *testing.T) {
	id, err := shared.ConvertStringToInt64("9000000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if id != 9000000000 {
		t.Errorf("expected 9000000000, got %d", id)
	}

	if _, err := shared.ConvertStringToInt64("1.5"); err == nil {
		t.Error("expected error for non-integer input")
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "zero total returns 1", total: 0, limit: 10, expected: 1},
		{name: "zero limit returns 1", total: 100, limit: 0, expected: 1},
		{name: "negative limit returns 1", total: 100, limit: -5, expected: 1},
		{name: "exact division", total: 100, limit: 10, expected: 10},
		{name: "division with remainder", total: 101, limit: 10, expected: 11},
		{name: "limit greater than total", total: 5, limit: 10, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.CalculateTotalPage(tt.total, tt.limit)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestTransformFields(t *testing.T) {
	type updateRequest struct {
		Name       string `db:"name"`
		MaxPeople  int    `db:"max_people"`
		Empty      string `db:"description"`
		NoDBTag    string
		IgnoredTag string `db:"-"`
		Active     *bool  `db:"is_active"`
	}

	inactive := false

	tests := []struct {
		name     string
		data     any
		username string
		expected map[string]any
	}{
		{
			name: "populated fields",
			data: updateRequest{
				Name:       "Room 1",
				MaxPeople:  8,
				NoDBTag:    "ignored",
				IgnoredTag: "ignored",
			},
			username: "admin",
			expected: map[string]any{
				"name":       "Room 1",
				"max_people": 8,
			},
		},
		{
			name:     "all zero values",
			data:     updateRequest{},
			username: "admin",
			expected: map[string]any{},
		},
		{
			name:     "pointer to false is dereferenced",
			data:     updateRequest{Active: &inactive},
			username: "staff",
			expected: map[string]any{
				"is_active": false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.TransformFields(tt.data, tt.username)

			if _, ok := result[constant.FieldModifiedAt].(time.Time); !ok {
				t.Error("expected modified_at to be a time.Time")
			}

			if result[constant.FieldModifiedBy] != tt.username {
				t.Errorf("expected modified_by to be %s, got %v", tt.username, result[constant.FieldModifiedBy])
			}

			for key, expectedValue := range tt.expected {
				if actualValue, exists := result[key]; !exists {
					t.Errorf("expected field %s to exist", key)
				} else if !reflect.DeepEqual(actualValue, expectedValue) {
					t.Errorf("expected field %s to be %v, got %v", key, expectedValue, actualValue)
				}
			}

			for key := range result {
				if key == constant.FieldModifiedAt || key == constant.FieldModifiedBy {
					continue
				}

				if _, expected := tt.expected[key]; !expected {
					t.Errorf("unexpected field %s in result", key)
				}
			}
		})
	}
}

func TestFilterByID(t *testing.T) {
	result := shared.FilterByID(42, "id", "bookings")

	expected := dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    "id",
				Value:    int64(42),
				Operator: dto.FilterOperatorEq,
				Table:    "bookings",
			},
		},
	}

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("expected %+v, got %+v", expected, result)
	}
}

func TestBuildCacheKey(t *testing.T) {
	if got := shared.BuildCacheKey("room:get", int64(1)); got != "room:get:1" {
		t.Errorf("expected room:get:1, got %s", got)
	}
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	req := dto.QueryParams{Page: 1, Limit: 10, SortBy: "name", SortDir: "ASC"}
	active := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "is_active", Value: true, Operator: dto.FilterOperatorEq},
			dto.Filter{Field: "max_people", Value: 4, Operator: dto.FilterOperatorGreaterEq},
		},
	}
	inactive := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "is_active", Value: false, Operator: dto.FilterOperatorEq},
			dto.Filter{Field: "max_people", Value: 4, Operator: dto.FilterOperatorGreaterEq},
		},
	}

	first := shared.BuildCacheKeyWithQuery("room:gets", req, active)
	second := shared.BuildCacheKeyWithQuery("room:gets", req, active)

	if first != second {
		t.Errorf("expected stable key, got %s and %s", first, second)
	}

	if !strings.HasPrefix(first, "room:gets:") {
		t.Errorf("expected prefix room:gets:, got %s", first)
	}

	if first == shared.BuildCacheKeyWithQuery("room:gets", req, inactive) {
		t.Error("expected different filters to produce different keys")
	}

	req.Page = 2
	if first == shared.BuildCacheKeyWithQuery("room:gets", req, active) {
		t.Error("expected different pages to produce different keys")
	}
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	redisCache := mocks.NewMockRedisCache(ctrl)

	redisCache.EXPECT().Clear(gomock.Any(), "booking:gets*").Return(nil)
	shared.InvalidateCaches(context.Background(), redisCache, "booking:gets")

	redisCache.EXPECT().Clear(gomock.Any(), "booking:count*").Return(errors.New("redis down"))
	shared.InvalidateCaches(context.Background(), redisCache, "booking:count")
}

func TestInvalidateAvailability(t *testing.T) {
	ctrl := gomock.NewController(t)
	redisCache := mocks.NewMockRedisCache(ctrl)

	gomock.InOrder(
		redisCache.EXPECT().Incr(gomock.Any(), constant.CacheKeyAvailabilityVersion).Return(int64(2), nil),
		redisCache.EXPECT().Clear(gomock.Any(), "availability:2025-06-10*").Return(nil),
	)
	shared.InvalidateAvailability(context.Background(), redisCache, "availability:2025-06-10")

	gomock.InOrder(
		redisCache.EXPECT().Incr(gomock.Any(), constant.CacheKeyAvailabilityVersion).Return(int64(0), errors.New("redis down")),
		redisCache.EXPECT().Clear(gomock.Any(), "availability*").Return(nil),
	)
	shared.InvalidateAvailability(context.Background(), redisCache, constant.CacheKeyAvailability)
}

func boolPtr(b bool) *bool {
	return &b
}
