package feeds

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var req zoneRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Zone)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestGetSightingsDecodesReport(t *testing.T) {
	srv := newFeedServer(t, http.StatusOK, `{
		"source": "v1 (Human Sightings)",
		"zone": "haro-strait",
		"duration_sec": 1.01,
		"sightings_count": 2,
		"sightings": [
			{"id": "human-1", "type": "SRKW", "lat": 45.52, "lon": -123.99},
			{"id": "human-2", "type": "SRKW", "lat": 45.55, "lon": -123.98}
		]
	}`)
	defer srv.Close()

	c := NewClient(ClientConfig{BiologistURL: srv.URL, Timeout: 2 * time.Second})

	report, err := c.GetSightings(context.Background(), "haro-strait")
	require.NoError(t, err)
	assert.Equal(t, "v1 (Human Sightings)", report.Source)
	assert.Equal(t, "haro-strait", report.Zone)
	require.Len(t, report.Sightings, 2)
	assert.Equal(t, "human-1", report.Sightings[0].ID)
	assert.Equal(t, "SRKW", report.Sightings[0].Kind)
	assert.InDelta(t, -123.99, report.Sightings[0].Lon, 1e-9)
}

func TestGetVesselTracksDecodesReport(t *testing.T) {
	srv := newFeedServer(t, http.StatusOK, `{
		"source": "Mocked AIS Feed",
		"zone": "haro-strait",
		"vessel_count": 1,
		"vessels": [
			{"id": "vessel-A", "class": "Ferry", "lat": 45.53, "lon": -123.985}
		]
	}`)
	defer srv.Close()

	c := NewClient(ClientConfig{VesselURL: srv.URL, Timeout: 2 * time.Second})

	report, err := c.GetVesselTracks(context.Background(), "haro-strait")
	require.NoError(t, err)
	require.Len(t, report.Vessels, 1)
	assert.Equal(t, "Ferry", report.Vessels[0].Class)
}

func TestGetSightingsRejectsUnknownFields(t *testing.T) {
	srv := newFeedServer(t, http.StatusOK, `{
		"source": "v1",
		"zone": "z",
		"sightings_count": 0,
		"sightings": [],
		"surprise": true
	}`)
	defer srv.Close()

	c := NewClient(ClientConfig{BiologistURL: srv.URL, Timeout: 2 * time.Second})

	_, err := c.GetSightings(context.Background(), "z")
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, FeedBiologist, ue.Feed)
	assert.Equal(t, FailureBadPayload, ue.Kind)
}

func TestGetSightingsRejectsOutOfRangePosition(t *testing.T) {
	srv := newFeedServer(t, http.StatusOK, `{
		"source": "v1",
		"zone": "z",
		"sightings_count": 1,
		"sightings": [{"id": "human-1", "type": "SRKW", "lat": 91.0, "lon": 0}]
	}`)
	defer srv.Close()

	c := NewClient(ClientConfig{BiologistURL: srv.URL, Timeout: 2 * time.Second})

	_, err := c.GetSightings(context.Background(), "z")
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, FailureBadPayload, ue.Kind)
}

func TestGetVesselTracksRejectsBlankID(t *testing.T) {
	srv := newFeedServer(t, http.StatusOK, `{
		"source": "ais",
		"zone": "z",
		"vessel_count": 1,
		"vessels": [{"id": "  ", "class": "Ferry", "lat": 45.0, "lon": -123.0}]
	}`)
	defer srv.Close()

	c := NewClient(ClientConfig{VesselURL: srv.URL, Timeout: 2 * time.Second})

	_, err := c.GetVesselTracks(context.Background(), "z")
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, FeedVessel, ue.Feed)
	assert.Equal(t, FailureBadPayload, ue.Kind)
}

func TestFetchErrorStatusIsRejected(t *testing.T) {
	srv := newFeedServer(t, http.StatusInternalServerError, `{"detail": "dataset offline"}`)
	defer srv.Close()

	c := NewClient(ClientConfig{BiologistURL: srv.URL, Timeout: 2 * time.Second})

	_, err := c.GetSightings(context.Background(), "z")
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, FailureRejected, ue.Kind)
	assert.Equal(t, http.StatusInternalServerError, ue.Status)
	assert.Contains(t, ue.Error(), "dataset offline")
}

func TestFetchUnreachableIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(ClientConfig{BiologistURL: url, Timeout: 500 * time.Millisecond})

	_, err := c.GetSightings(context.Background(), "z")
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, FailureUnavailable, ue.Kind)
}

func TestFetchMissingURLIsUnavailable(t *testing.T) {
	c := NewClient(ClientConfig{})

	_, err := c.GetVesselTracks(context.Background(), "z")
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, FeedVessel, ue.Feed)
	assert.Equal(t, FailureUnavailable, ue.Kind)
	assert.False(t, errors.Is(err, context.DeadlineExceeded))
}
