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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. This is similar to
// the Errorf() function in the fmt package. It takes a formatting pattern,
// placeholder values and returns an error.
//
// The Is() function can be used to check whether an error was created with a
// specific pattern. Packages that produce curated errors export the patterns
// they use as constants so that callers can distinguish between them. For
// example:
//
//	const EchoMismatch = "debugwire: echo mismatch: sent % 02x, received % 02x"
//
//	err := curated.Errorf(EchoMismatch, sent, recv)
//
//	if curated.Is(err, EchoMismatch) {
//		fmt.Println("link must be reopened")
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain.
//
//	f := curated.Errorf("session: %v", err)
//
//	if curated.Has(f, EchoMismatch) {
//		fmt.Println("true")
//	}
//
// The IsAny() function answers whether the error was created by
// curated.Errorf(). Put another way, it returns true if the error is 'curated'
// and false if the error is 'uncurated'. We can think of the difference as
// being 'expected' and 'unexpected' failures.
//
// The Error() function implementation for curated errors ensures that the
// error chain is normalised. Specifically, that the chain does not contain
// duplicate adjacent parts. This alleviates the problem of when and how to
// wrap errors: a function can wrap whatever it receives with its own prefix
// without worrying about the prefix appearing twice.
//
// Curated errors also implement Unwrap() so that the errors package in the
// standard library can see through them. This is useful when the wrapped
// value is a sentinel from another package, os.ErrDeadlineExceeded for
// example.
package curated
