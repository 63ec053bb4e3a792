// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pipeline loads step definitions from YAML or HCL files and declares them on a runbatch.Scope.
package pipeline
