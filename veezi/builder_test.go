package veezi

import (
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderValidation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		apiKey  string
		field   string
	}{
		{name: "missing URL", baseURL: "", apiKey: "key", field: "base url"},
		{name: "blank URL", baseURL: "   ", apiKey: "key", field: "base url"},
		{name: "relative URL", baseURL: "api.veezi.com", apiKey: "key", field: "base url"},
		{name: "unsupported scheme", baseURL: "ftp://api.veezi.com", apiKey: "key", field: "base url"},
		{name: "missing host", baseURL: "https://", apiKey: "key", field: "base url"},
		{name: "missing API key", baseURL: "https://api.veezi.com", apiKey: "", field: "api key"},
		{name: "blank API key", baseURL: "https://api.veezi.com", apiKey: "  ", field: "api key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewBuilder().WithBaseURL(tt.baseURL).WithAPIKey(tt.apiKey).Build()
			require.Error(t, err)
			assert.Nil(t, client)
			assert.ErrorIs(t, err, ErrInvalidConfig)

			var cerr *ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestBuilderZeroValueCannotBuild(t *testing.T) {
	_, err := Builder{}.Build()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBuilderRejectsNonPositiveCustomTTL(t *testing.T) {
	_, err := NewBuilder().
		WithBaseURL("https://api.veezi.com").
		WithAPIKey("key").
		WithCacheTTL(0).
		Build()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBuilderDefaults(t *testing.T) {
	client, err := NewBuilder().WithBaseURL("https://api.veezi.com/").WithAPIKey("key").Build()
	require.NoError(t, err)

	assert.False(t, client.CacheEnabled())
	assert.Equal(t, CacheDisabled, client.CachePolicy().Mode)

	exec, ok := client.executor.(*httpExecutor)
	require.True(t, ok)
	assert.Equal(t, "https://api.veezi.com", exec.baseURL)
	assert.Equal(t, "key", exec.apiKey)
	assert.Nil(t, exec.limiter)
	assert.Nil(t, exec.metrics)

	httpClient, ok := exec.http.(*http.Client)
	require.True(t, ok)
	assert.Equal(t, DefaultTimeout, httpClient.Timeout)
}

func TestBuilderCopiesAreIndependent(t *testing.T) {
	base := NewBuilder().WithBaseURL("https://api.veezi.com").WithAPIKey("key")
	cached := base.WithDefaultCaching()
	routed := cached.WithRouteTTL(RouteSessions, 5*time.Second)
	routedAgain := routed.WithRouteTTL(RouteFilms, time.Second)

	assert.Equal(t, CacheDisabled, base.CachePolicy().Mode)
	assert.Equal(t, CacheDefaultTTL, cached.CachePolicy().Mode)

	assert.Equal(t, CachePerRoute, routed.CachePolicy().Mode)
	assert.Len(t, routed.CachePolicy().Routes, 1, "later WithRouteTTL must not leak into earlier copies")
	assert.Len(t, routedAgain.CachePolicy().Routes, 2)

	a, err := base.Build()
	require.NoError(t, err)
	assert.False(t, a.CacheEnabled())

	b, err := cached.Build()
	require.NoError(t, err)
	assert.True(t, b.CacheEnabled())
}

func TestBuilderCachePolicies(t *testing.T) {
	base := NewBuilder().WithBaseURL("https://api.veezi.com").WithAPIKey("key")

	tests := []struct {
		name  string
		b     Builder
		route Route
		want  time.Duration
	}{
		{name: "default caching", b: base.WithDefaultCaching(), route: RouteFilms, want: 60 * time.Second},
		{name: "custom ttl", b: base.WithCacheTTL(5 * time.Minute), route: RouteFilms, want: 5 * time.Minute},
		{name: "route override", b: base.WithCacheTTL(time.Minute).WithRouteTTL(RouteSite, time.Hour), route: RouteSite, want: time.Hour},
		{name: "route fallback keeps custom ttl", b: base.WithCacheTTL(2*time.Minute).WithRouteTTL(RouteSite, time.Hour), route: RouteFilms, want: 2 * time.Minute},
		{name: "route override from disabled uses default", b: base.WithRouteTTL(RouteSite, time.Hour), route: RouteFilms, want: DefaultCacheTTL},
		{name: "route disabled", b: base.WithDefaultCaching().WithRouteTTL(RouteSite, 0), route: RouteSite, want: 0},
		{name: "without cache", b: base.WithDefaultCaching().WithoutCache(), route: RouteFilms, want: 0},
		{name: "explicit policy", b: base.WithCachePolicy(PerRoute(map[Route]time.Duration{RouteScreens: time.Second})), route: RouteScreens, want: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := tt.b.Build()
			require.NoError(t, err)
			assert.Equal(t, tt.want, client.CachePolicy().TTLFor(tt.route))
		})
	}
}

func TestNewClientOptions(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient("https://api.veezi.com", "key", logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		httpClient := client.executor.(*httpExecutor).http.(*http.Client)
		assert.Equal(t, 5*time.Second, httpClient.Timeout)
	})

	t.Run("with custom transport", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient("https://api.veezi.com", "key", logger, WithTransport(custom))
		require.NoError(t, err)
		assert.Same(t, custom, client.executor.(*httpExecutor).http)
	})

	t.Run("with cache", func(t *testing.T) {
		client, err := NewClient("https://api.veezi.com", "key", logger, WithCache(CustomTTL(time.Minute)))
		require.NoError(t, err)
		assert.True(t, client.CacheEnabled())
		assert.Equal(t, time.Minute, client.CachePolicy().TTLFor(RouteSessions))
	})

	t.Run("with request limit", func(t *testing.T) {
		client, err := NewClient("https://api.veezi.com", "key", logger, WithRequestLimit(2, 0))
		require.NoError(t, err)
		limiter := client.executor.(*httpExecutor).limiter
		require.NotNil(t, limiter)
		assert.Equal(t, 1, limiter.Burst())
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := NewClient("", "key", logger)
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), "base url is required")
	})
}
