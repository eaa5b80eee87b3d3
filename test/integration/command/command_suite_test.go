// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

//go:build integration

package command_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
)

func TestCommand(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Command Integration Suite")
}
