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

package firmwareloader

// Error patterns.
const (
	LoadError         = "firmwareloader: %v"
	UnsupportedScheme = "firmwareloader: unsupported URL scheme (%s)"
	UnsupportedFormat = "firmwareloader: unsupported format (%s)"
	UnexpectedHash    = "firmwareloader: unexpected hash value"
	HexError          = "firmwareloader: hex: %v"
	EmptyImage        = "firmwareloader: image is empty"
)
