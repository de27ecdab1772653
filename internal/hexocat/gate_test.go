package hexocat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ca-srg/hexocat/internal/types"
)

func TestAuthorizeDevelopment(t *testing.T) {
	cfg := &types.Config{Environment: types.Development, Key: "s3cr3t"}
	for _, token := range []string{"", "s3cr3t", "wrong", "S3CR3T"} {
		assert.True(t, Authorize(cfg, token), "token %q", token)
	}
}

func TestAuthorizeWithKey(t *testing.T) {
	for _, env := range []types.Environment{types.Staging, types.Production} {
		cfg := &types.Config{Environment: env, Key: "s3cr3t"}

		assert.True(t, Authorize(cfg, "s3cr3t"), env)
		assert.False(t, Authorize(cfg, ""), env)
		assert.False(t, Authorize(cfg, "S3CR3T"), env)
		assert.False(t, Authorize(cfg, " s3cr3t"), env)
		assert.False(t, Authorize(cfg, "s3cr3t2"), env)
	}
}

// An empty key lets an empty token through. config.Load refuses to start
// staging or production in that state.
func TestAuthorizeEmptyKeyAcceptsEmptyToken(t *testing.T) {
	cfg := &types.Config{Environment: types.Production}
	assert.True(t, Authorize(cfg, ""))
	assert.False(t, Authorize(cfg, "anything"))
}

func TestAuthorizeUnknownEnvironment(t *testing.T) {
	cfg := &types.Config{Environment: "qa", Key: "s3cr3t"}
	assert.False(t, Authorize(cfg, "s3cr3t"))
}
