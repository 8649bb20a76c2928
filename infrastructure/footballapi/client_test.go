package footballapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const topScorersBody = `{
  "results": 2,
  "errors": [],
  "response": [
    {
      "player": {"id": 1100, "name": "E. Haaland", "age": 24, "nationality": "Norway", "photo": "https://media.api-sports.io/football/players/1100.png"},
      "statistics": [{
        "team": {"id": 50, "name": "Manchester City"},
        "league": {"id": 39, "name": "Premier League"},
        "games": {"appearences": 31, "position": "Attacker", "rating": "7.46"},
        "goals": {"total": 27, "assists": 5}
      }]
    },
    {
      "player": {"id": 2, "name": "Backup Striker", "age": 30, "nationality": "Spain", "photo": ""},
      "statistics": [{
        "team": {"id": 51, "name": "Brighton"},
        "league": {"id": 39, "name": "Premier League"},
        "games": {"appearences": null, "position": "Attacker", "rating": null},
        "goals": {"total": 3, "assists": null}
      }]
    }
  ]
}`

func newTestClient(serverURL string, leagues ...int) *Client {
	return NewClient(Config{
		BaseURL: serverURL,
		APIKey:  "test-key",
		Host:    "v3.football.api-sports.io",
		Leagues: leagues,
		Season:  2024,
		Timeout: 2 * time.Second,
	})
}

func TestClient_FetchTopPlayers(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "/players/topscorers", r.URL.Path)
		assert.Equal(t, "2024", r.URL.Query().Get("season"))
		assert.Equal(t, "test-key", r.Header.Get("X-RapidAPI-Key"))
		assert.Equal(t, "v3.football.api-sports.io", r.Header.Get("X-RapidAPI-Host"))

		w.Header().Set("X-RateLimit-Requests-Limit", "100")
		w.Header().Set("X-RateLimit-Requests-Remaining", "97")
		fmt.Fprint(w, topScorersBody)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 39)
	stats, err := client.FetchTopPlayers(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)

	haaland := stats[0]
	assert.Equal(t, "E. Haaland", haaland.Name)
	assert.Equal(t, "Manchester City", haaland.Team)
	assert.Equal(t, "Premier League", haaland.League)
	assert.Equal(t, "Attacker", haaland.Position)
	assert.Equal(t, 27, haaland.Goals)
	assert.Equal(t, 5, haaland.Assists)
	assert.Equal(t, 31, haaland.Appearances)
	assert.InDelta(t, 7.46, haaland.Rating, 0.001)

	// nulls decode as zero
	assert.Equal(t, 0, stats[1].Assists)
	assert.Equal(t, 0, stats[1].Appearances)
	assert.Zero(t, stats[1].Rating)

	assert.Equal(t, int32(1), requests.Load())
	assert.Equal(t, 97, client.GetRateLimitInfo().Remaining)
}

func TestClient_PartialLeagueFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("league") == "140" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, topScorersBody)
	}))
	defer server.Close()

	stats, err := newTestClient(server.URL, 140, 39).FetchTopPlayers(context.Background())
	require.NoError(t, err)
	assert.Len(t, stats, 2)
}

func TestClient_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			wantErr: ErrRateLimited,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"response": [`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := newTestClient(server.URL, 39, 140).FetchTopPlayers(context.Background())
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestClient_NotConfigured(t *testing.T) {
	t.Parallel()

	client := NewClient(Config{Leagues: []int{39}})
	assert.False(t, client.Configured())

	_, err := client.FetchTopPlayers(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}
