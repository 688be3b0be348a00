// Package testutil provides fixtures for locio tests.
//
// This package is intended for use in tests only.
//
// # Line fixtures
//
// A line fixture is a file made of 32-byte lines, each holding a dot, the
// right-aligned line number and a newline, so the expected bytes at any
// offset are known:
//
//	path := testutil.WriteLineFixture(t, dir, "2MBfile.txt", testutil.FixtureLines)
//	want := testutil.LineFixtureAt(80, 32)
//
// # HTTP servers
//
//	srv := testutil.NewFileServer(t, dir)        // Range support and directory indexes
//	srv := testutil.NewIndexServer(t, links...)  // a single hand-written index page
package testutil
