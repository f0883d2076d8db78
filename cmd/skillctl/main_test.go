package main

import (
	"SkillHub/internal/config"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	printVersion(&buf, &config.Config{ServerURL: "http://localhost:8081", TokenFile: "/tmp/tok"})

	out := buf.String()
	assert.Contains(t, out, "SkillHub CLI")
	assert.Contains(t, out, "Build date: unknown")
	assert.Contains(t, out, "Server: http://localhost:8081")
	assert.Contains(t, out, "Token file: /tmp/tok")
}
