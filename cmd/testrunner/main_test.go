package main

import (
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
)

func TestDiscoverTests(t *testing.T) {
	tests, err := discoverTests(filepath.Join("..", "..", "internal", "driver", "testdata"))
	be.Err(t, err, nil)
	be.True(t, len(tests) > 0)
	for _, test := range tests {
		be.True(t, test.Program != "")
		be.True(t, test.Expected != "")
	}
}

func TestSlug(t *testing.T) {
	be.Equal(t, slug("Echo a line"), "echo_a_line")
	be.Equal(t, slug("x<-1"), "x__1")
}
