// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
