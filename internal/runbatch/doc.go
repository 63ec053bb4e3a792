// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runbatch runs a pipeline of named steps, each mapped to one external command.
//
// Steps are declared on a Scope, either directly or inside nested reports.
// A report measures its elapsed time, installs a signal handler for its duration
// and prints a pass/fail banner listing the failed children.
//
// Three execution regimes are supported. Sequential steps run one at a time with
// inherited stdio, optionally stopping at the first failure (fail-fast) or resuming
// after a previous failure (continue). Parallel steps are spawned together, each in
// its own process group, and supervised by a single polling loop that captures
// their output and prints a failure summary.
package runbatch
