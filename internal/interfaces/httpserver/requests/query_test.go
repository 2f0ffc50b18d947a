package requests

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/zelican/chat-api/internal/utils/platformerrors"
)

func paginationFor(t *testing.T, rawQuery string) (*Pagination, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/chat/conversations?"+rawQuery, nil)
	return GetPaginationFromQuery(c)
}

func TestGetPaginationFromQuery(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
		wantErr   bool
	}{
		{"defaults", "", 1, DefaultPageSize, false},
		{"explicit", "page=3&limit=50", 3, 50, false},
		{"limit at max", "limit=100", 1, 100, false},
		{"zero page", "page=0", 0, 0, true},
		{"negative page", "page=-1", 0, 0, true},
		{"non-numeric page", "page=abc", 0, 0, true},
		{"zero limit", "limit=0", 0, 0, true},
		{"limit over max", "limit=101", 0, 0, true},
		{"non-numeric limit", "limit=all", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := paginationFor(t, tt.query)
			if tt.wantErr {
				if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Page != tt.wantPage || got.Limit != tt.wantLimit {
				t.Errorf("got %+v, want page=%d limit=%d", got, tt.wantPage, tt.wantLimit)
			}
		})
	}
}
