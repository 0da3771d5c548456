package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretsInterpolate(t *testing.T) {
	secrets := Secrets{
		"PG_DATABASE":    "coursedeck",
		"PG_USER":        "app",
		"PG_PASSWORD":    "hunter2",
		"RENDER_API_KEY": "rnd_key",
	}

	t.Run("replaces references", func(t *testing.T) {
		out, err := secrets.Interpolate("psql -U ${{ secrets.PG_USER }} -d ${{ secrets.PG_DATABASE }}")
		require.NoError(t, err)
		assert.Equal(t, "psql -U app -d coursedeck", out)
	})

	t.Run("whitespace inside braces is accepted", func(t *testing.T) {
		out, err := secrets.Interpolate("${{secrets.PG_USER}} ${{  secrets.PG_USER  }}")
		require.NoError(t, err)
		assert.Equal(t, "app app", out)
	})

	t.Run("unknown secret name is a hard error", func(t *testing.T) {
		_, err := secrets.Interpolate("token=${{ secrets.GITHUB_TOKEN }}")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown secret "GITHUB_TOKEN"`)
	})

	t.Run("known but unset secret is a hard error", func(t *testing.T) {
		_, err := secrets.Interpolate("hook=${{ secrets.SLACK_WEBHOOK_URL }}")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `secret "SLACK_WEBHOOK_URL" is not set`)
	})

	t.Run("text without references passes through", func(t *testing.T) {
		out, err := secrets.Interpolate("npm test")
		require.NoError(t, err)
		assert.Equal(t, "npm test", out)
	})
}

func TestSecretsInterpolateEnv(t *testing.T) {
	secrets := Secrets{"PG_PASSWORD": "hunter2"}

	out, err := secrets.InterpolateEnv(map[string]string{
		"PG_PASSWORD": "${{ secrets.PG_PASSWORD }}",
		"NODE_ENV":    "production",
	})
	require.NoError(t, err)
	assert.Equal(t, "hunter2", out["PG_PASSWORD"])
	assert.Equal(t, "production", out["NODE_ENV"])

	_, err = secrets.InterpolateEnv(map[string]string{"X": "${{ secrets.NOPE }}"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "env X")
}

func TestSecretsRedact(t *testing.T) {
	secrets := Secrets{
		"PG_PASSWORD":    "hunter2",
		"RENDER_API_KEY": "hunter2-extended",
	}

	// Longer value masked first so the shorter one cannot leak a suffix.
	out := secrets.Redact("key=hunter2-extended pass=hunter2 other=safe")
	assert.Equal(t, "key=*** pass=*** other=safe", out)
	assert.NotContains(t, out, "hunter2")
}

func TestSecretsFromEnv(t *testing.T) {
	t.Setenv("PG_DATABASE", "coursedeck")
	t.Setenv("DOCKER_USERNAME", "builder")

	s := SecretsFromEnv()
	assert.Equal(t, "coursedeck", s["PG_DATABASE"])
	assert.Equal(t, "builder", s["DOCKER_USERNAME"])
	_, ok := s["RENDER_API_KEY"]
	assert.False(t, ok, "unset secrets must stay absent")
}
