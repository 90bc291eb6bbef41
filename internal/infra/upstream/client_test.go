package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"fleetmap/config"
	"fleetmap/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&config.UpstreamConfig{BaseURL: server.URL})
	require.NoError(t, err)

	return client
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(nil)
	assert.Error(t, err)

	_, err = NewClient(&config.UpstreamConfig{BaseURL: "  "})
	assert.Error(t, err)
}

func TestClient_ListPersons(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"d1","name":"Sami","role":"driver","isAvailable":true,"vehicleType":"motorbike",
			 "location":{"lat":31.95,"lng":35.91,"address":"Downtown"}},
			{"id":"d2","name":"Lina","role":"driver",
			 "location":{"lat":"31.96","lng":"35.92"}},
			{"id":"c1","name":"Omar","role":"customer",
			 "location":{"lat":null,"lng":35.9}},
			{"id":"a1","name":"Root","role":"admin"}
		]`))
	})

	persons, err := client.ListPersons(context.Background())
	require.NoError(t, err)
	require.Len(t, persons, 4)

	assert.Equal(t, entity.RoleDriver, persons[0].Role)
	assert.True(t, persons[0].Available)
	require.NotNil(t, persons[0].Location)
	assert.Equal(t, 31.95, persons[0].Location.Lat)
	assert.Equal(t, "Downtown", persons[0].Location.Address)

	// Numeric strings decode like numbers; a missing availability flag
	// defaults to unavailable.
	assert.False(t, persons[1].Available)
	require.NotNil(t, persons[1].Location)
	assert.Equal(t, 31.96, persons[1].Location.Lat)

	// A null coordinate makes the whole location absent.
	assert.Nil(t, persons[2].Location)
	assert.Equal(t, entity.RoleCustomer, persons[2].Role)

	assert.Equal(t, entity.RoleAdmin, persons[3].Role)
	assert.Nil(t, persons[3].Location)
}

func TestClient_ListOrders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/orders", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"o1","status":"on_the_way","driverId":"d1",
			 "dropoffLocation":{"lat":31.97,"lng":35.93,"address":"8th Circle"}},
			{"id":"o2","status":"shipped","driverId":"d2",
			 "dropoffLocation":{"lat":"not-a-number","lng":35.93}}
		]`))
	})

	orders, err := client.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, entity.StatusOnTheWay, orders[0].Status)
	require.NotNil(t, orders[0].Dropoff)
	assert.Equal(t, 31.97, orders[0].Dropoff.Lat)

	// Unrecognized statuses and malformed coordinates degrade, they do not
	// fail the fetch.
	assert.Equal(t, entity.StatusUnknown, orders[1].Status)
	assert.Nil(t, orders[1].Dropoff)
}

func TestClient_ErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database offline", http.StatusServiceUnavailable)
	})

	_, err := client.ListPersons(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "database offline")
}

func TestClient_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"`))
	})

	_, err := client.ListOrders(context.Background())
	assert.Error(t, err)
}
