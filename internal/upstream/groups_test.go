package upstream

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListGroups(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []Group
		wantErr error
	}{
		{
			name: "upstream keys",
			body: `[{"KundegruppeID": 252, "Navn": "Børnehuset Solsikken"}, {"KundegruppeID": "253", "Navn": "Skovbørnehaven"}]`,
			want: []Group{{ID: 252, Name: "Børnehuset Solsikken"}, {ID: 253, Name: "Skovbørnehaven"}},
		},
		{
			name: "generic keys wrapped",
			body: `{"groups": [{"id": 7, "name": "Kantine"}]}`,
			want: []Group{{ID: 7, Name: "Kantine"}},
		},
		{
			name: "missing id skipped, missing name defaulted",
			body: `[{"name": "No id"}, {"id": 9}]`,
			want: []Group{{ID: 9, Name: "Group 9"}},
		},
		{
			name:    "not a list",
			body:    `{"id": 1}`,
			wantErr: ErrInvalidData,
		},
		{
			name:    "malformed",
			body:    `[{"id": 1}`,
			wantErr: ErrInvalidData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/groups", r.URL.Path)
				_, _ = w.Write([]byte(tt.body))
			})

			got, err := c.ListGroups(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListGroups_NotConfigured(t *testing.T) {
	c, err := New(Options{MenuURL: "http://example.test/menu"})
	require.NoError(t, err)

	_, err = c.ListGroups(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestProbeGroup(t *testing.T) {
	now := time.Date(2025, 6, 18, 9, 0, 0, 0, time.UTC)

	t.Run("valid group", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/menu", r.URL.Path)
			assert.Equal(t, "252", r.URL.Query().Get("KundegruppeID"))
			_, _ = w.Write([]byte(`{"dato": "2025-06-18", "menuoverskrifter": {}}`))
		})
		assert.NoError(t, c.ProbeGroup(context.Background(), 252, now))
	})

	t.Run("payload without sections", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"message": "unknown group"}`))
		})
		err := c.ProbeGroup(context.Background(), 999, now)
		assert.True(t, IsUnknownGroup(err), "got %v", err)
	})

	t.Run("http failure", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		err := c.ProbeGroup(context.Background(), 252, now)
		assert.ErrorIs(t, err, ErrHTTPStatus)
	})
}
