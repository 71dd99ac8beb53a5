package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("SCENARIOFORGE_TEST_HOST", "db.internal")
	t.Setenv("SCENARIOFORGE_TEST_PORT", "5432")

	in := []byte("uri: ${SCENARIOFORGE_TEST_HOST}:$SCENARIOFORGE_TEST_PORT")
	out := ExpandEnv(in)

	assert.Equal(t, "uri: db.internal:5432", string(out))
}

func TestExpandEnv_MissingVarExpandsEmpty(t *testing.T) {
	out := ExpandEnv([]byte("key: ${SCENARIOFORGE_DOES_NOT_EXIST}"))
	assert.Equal(t, "key: ", string(out))
}
