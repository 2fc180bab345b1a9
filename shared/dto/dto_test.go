package dto_test

import (
	"net/http"
	"net/url"
	"smashroom/shared/constant"
	"smashroom/shared/dto"
	"smashroom/shared/model"
	"smashroom/shared/timezone"
	"testing"
	"time"
)

func TestMetadata_FromModel(t *testing.T) {
	// Create test time values
	createdAt := time.Date(2024, 7, 1, 12, 0, 0, 0, timezone.GetLocation())
	modifiedAt := time.Date(2024, 7, 2, 12, 0, 0, 0, timezone.GetLocation())

	modelMetadata := model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "creator",
		ModifiedBy: "modifier",
	}

	metadata := &dto.Metadata{}
	metadata.FromModel(modelMetadata)

	expectedCreatedAt := createdAt.Format(constant.DateFormat)
	expectedModifiedAt := modifiedAt.Format(constant.DateFormat)

	if metadata.CreatedAt != expectedCreatedAt {
		t.Errorf("expected CreatedAt to be %s, got %s", expectedCreatedAt, metadata.CreatedAt)
	}

	if metadata.UpdatedAt != expectedModifiedAt {
		t.Errorf("expected UpdatedAt to be %s, got %s", expectedModifiedAt, metadata.UpdatedAt)
	}

	if metadata.CreatedBy != "creator" {
		t.Errorf("expected CreatedBy to be 'creator', got %s", metadata.CreatedBy)
	}

	if metadata.UpdatedBy != "modifier" {
		t.Errorf("expected UpdatedBy to be 'modifier', got %s", metadata.UpdatedBy)
	}
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    map[string]string
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name: "with all valid parameters",
			queryParams: map[string]string{
				"page":    "2",
				"limit":   "20",
				"sortBy":  "name",
				"sortDir": "ASC",
			},
			defaultRequest: false,
			expected: dto.QueryParams{
				Page:    2,
				Limit:   20,
				SortBy:  "name",
				SortDir: "ASC",
			},
		},
		{
			name:           "with default request enabled and no parameters",
			queryParams:    map[string]string{},
			defaultRequest: true,
			expected: dto.QueryParams{
				Page:    constant.DefaultValuePage,
				Limit:   constant.DefaultValueLimit,
				SortBy:  "",
				SortDir: "",
			},
		},
		{
			name:           "with default request disabled and no parameters",
			queryParams:    map[string]string{},
			defaultRequest: false,
			expected: dto.QueryParams{
				Page:    0,
				Limit:   0,
				SortBy:  "",
				SortDir: "",
			},
		},
		{
			name: "with invalid page parameter",
			queryParams: map[string]string{
				"page": "invalid",
			},
			defaultRequest: true,
			expected: dto.QueryParams{
				Page:    constant.DefaultValuePage, // Should use default
				Limit:   constant.DefaultValueLimit,
				SortBy:  "",
				SortDir: "",
			},
		},
		{
			name: "with negative page parameter",
			queryParams: map[string]string{
				"page": "-1",
			},
			defaultRequest: true,
			expected: dto.QueryParams{
				Page:    constant.DefaultValuePage, // Should use default
				Limit:   constant.DefaultValueLimit,
				SortBy:  "",
				SortDir: "",
			},
		},
		{
			name: "with zero page parameter",
			queryParams: map[string]string{
				"page": "0",
			},
			defaultRequest: true,
			expected: dto.QueryParams{
				Page:    constant.DefaultValuePage, // Should use default
				Limit:   constant.DefaultValueLimit,
				SortBy:  "",
				SortDir: "",
			},
		},
		{
			name: "with invalid limit parameter",
			queryParams: map[string]string{
				"limit": "invalid",
			},
			defaultRequest: true,
			expected: dto.QueryParams{
				Page:    constant.DefaultValuePage,
				Limit:   constant.DefaultValueLimit, // Should use default
				SortBy:  "",
				SortDir: "",
			},
		},
		{
			name: "with negative limit parameter",
			queryParams: map[string]string{
				"limit": "-10",
			},
			defaultRequest: true,
			expected: dto.QueryParams{
				Page:    constant.DefaultValuePage,
				Limit:   constant.DefaultValueLimit, // Should use default
				SortBy:  "",
				SortDir: "",
			},
		},
		{
			name: "with partial parameters and defaults enabled",
			queryParams: map[string]string{
				"page":   "3",
				"sortBy": "email",
			},
			defaultRequest: true,
			expected: dto.QueryParams{
				Page:    3,
				Limit:   constant.DefaultValueLimit, // Should use default
				SortBy:  "email",
				SortDir: "", // Empty when not provided
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create a URL with query parameters
			baseURL := "http://example.com/test"
			u, err := url.Parse(baseURL)
			if err != nil {
				t.Fatalf("failed to parse URL: %v", err)
			}

			// Add query parameters
			query := u.Query()
			for key, value := range tt.queryParams {
				query.Set(key, value)
			}
			u.RawQuery = query.Encode()

			// Create HTTP request
			req, err := http.NewRequest("GET", u.String(), nil)
			if err != nil {
				t.Fatalf("failed to create request: %v", err)
			}

			// Test the method
			queryParams := &dto.QueryParams{}
			queryParams.FromRequest(req, tt.defaultRequest)

			// Verify results
			if queryParams.Page != tt.expected.Page {
				t.Errorf("expected Page to be %d, got %d", tt.expected.Page, queryParams.Page)
			}
			if queryParams.Limit != tt.expected.Limit {
				t.Errorf("expected Limit to be %d, got %d", tt.expected.Limit, queryParams.Limit)
			}
			if queryParams.SortBy != tt.expected.SortBy {
				t.Errorf("expected SortBy to be %s, got %s", tt.expected.SortBy, queryParams.SortBy)
			}
			if queryParams.SortDir != tt.expected.SortDir {
				t.Errorf("expected SortDir to be %s, got %s", tt.expected.SortDir, queryParams.SortDir)
			}
		})
	}
}

func TestSortDirectionConstants(t *testing.T) {
	if dto.SortDirAsc != "ASC" {
		t.Errorf("expected SortDirAsc to be 'ASC', got %s", dto.SortDirAsc)
	}
	if dto.SortDirDesc != "DESC" {
		t.Errorf("expected SortDirDesc to be 'DESC', got %s", dto.SortDirDesc)
	}
}

func TestQueryParams_LimitIsCapped(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://example.com/api/bookings?limit=5000", nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	queryParams := &dto.QueryParams{}
	queryParams.FromRequest(req, true)

	if queryParams.Limit != constant.MaxValueLimit {
		t.Errorf("expected Limit to be capped at %d, got %d", constant.MaxValueLimit, queryParams.Limit)
	}
}

func TestQueryParams_Offset(t *testing.T) {
	tests := []struct {
		page, limit, expected int
	}{
		{page: 0, limit: 10, expected: 0},
		{page: 1, limit: 10, expected: 0},
		{page: 3, limit: 20, expected: 40},
	}

	for _, tt := range tests {
		q := dto.QueryParams{Page: tt.page, Limit: tt.limit}
		if got := q.Offset(); got != tt.expected {
			t.Errorf("page %d limit %d: expected offset %d, got %d", tt.page, tt.limit, tt.expected, got)
		}
	}
}

func TestQueryParams_OrderBy(t *testing.T) {
	allowed := map[string]string{"date": "bookings.booking_date", "createdAt": "bookings.created_at"}

	tests := []struct {
		name     string
		params   dto.QueryParams
		expected string
	}{
		{name: "allowed column", params: dto.QueryParams{SortBy: "date", SortDir: "ASC"}, expected: "bookings.booking_date ASC"},
		{name: "unknown column falls back", params: dto.QueryParams{SortBy: "1; DROP TABLE bookings", SortDir: "ASC"}, expected: "bookings.id ASC"},
		{name: "missing direction defaults", params: dto.QueryParams{SortBy: "createdAt"}, expected: "bookings.created_at DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.params.OrderBy(allowed, "bookings.id"); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "room_id", Value: int64(1), Operator: dto.FilterOperatorEq, Table: "bookings"},
			dto.Filter{Field: "status", Value: []string{"pending", "confirmed"}, Operator: dto.FilterOperatorIn},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{Field: "name", Value: "jan", Operator: dto.FilterOperatorLike},
					dto.Filter{ArgName: "dateFrom", Field: "booking_date", Value: "2025-06-01", Operator: dto.FilterOperatorGreaterEq},
				},
			},
		},
	}

	where, args := group.GetWhereClause()

	expected := "(bookings.room_id = :room_id AND status IN (:status_0, :status_1)  AND " +
		"(LOWER(name) LIKE LOWER(:name)  OR booking_date >= :dateFrom))"
	if where != expected {
		t.Errorf("expected %q, got %q", expected, where)
	}

	if args["room_id"] != int64(1) || args["status_1"] != "confirmed" || args["name"] != "%jan%" || args["dateFrom"] != "2025-06-01" {
		t.Errorf("unexpected args %v", args)
	}

	empty := dto.FilterGroup{}
	if where, _ := empty.GetWhereClause(); where != "" {
		t.Errorf("expected empty where clause, got %q", where)
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name     string
		filter   dto.Filter
		expected string
	}{
		{
			name:     "date range upper bound",
			filter:   dto.Filter{ArgName: "dateTo", Field: "booking_date", Value: "2025-06-30", Operator: dto.FilterOperatorLessEq, Table: "bookings"},
			expected: "bookings.booking_date <= :dateTo",
		},
		{
			name:     "in with no values matches nothing",
			filter:   dto.Filter{Field: "room_id", Value: []int64{}, Operator: dto.FilterOperatorIn},
			expected: "FALSE",
		},
		{
			name:     "in with a scalar",
			filter:   dto.Filter{Field: "room_id", Value: int64(2), Operator: dto.FilterOperatorIn},
			expected: "room_id = :room_id",
		},
		{
			name:     "unknown operator",
			filter:   dto.Filter{Field: "room_id", Value: 1, Operator: "between"},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if where, _ := tt.filter.GetWhereClause(); where != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, where)
			}
		})
	}

	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "room_id", Value: 1, Operator: "between"},
			dto.Filter{Field: "status", Value: "pending", Operator: dto.FilterOperatorEq},
		},
	}

	if where, _ := group.GetWhereClause(); where != "(status = :status)" {
		t.Errorf("expected unknown operators to be skipped, got %q", where)
	}
}
