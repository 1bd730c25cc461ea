// This file is part of dwdebug.
//
// dwdebug is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// dwdebug is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with dwdebug.  If not, see <https://www.gnu.org/licenses/>.

// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The ExpectEquality() and ExpectInequality() functions compare any two values
// of the same comparable type. ExpectApproximate() compares floating point or
// integer values within a tolerance.
//
// The ExpectSuccess() and ExpectFailure() functions test for "success" and
// "failure" conditions. A success value is a true boolean or a nil error. A
// failure value is a false boolean or a non-nil error.
//
// The Demand*() functions are the same as the Expect*() functions except
// that the test is stopped immediately on failure. This is useful when a
// failure would make the remainder of the test meaningless, for example
// when the preparation of a simulated target fails.
//
// RingWriter is an implementation of io.Writer that keeps the tail of long
// output from a component under test.
package test
