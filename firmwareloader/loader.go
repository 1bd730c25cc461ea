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

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/dwdebug/dwdebug/curated"
	"github.com/marcinbor85/gohex"
)

// List of image formats.
const (
	FormatAuto = "AUTO"
	FormatRaw  = "RAW"
	FormatHex  = "HEX"
)

// fill value for the gaps in a flattened hex image
const erased = 0xff

// FileExtensions is the list of file extensions that are recognised by the
// firmwareloader package.
var FileExtensions = [...]string{".BIN", ".RAW", ".HEX", ".IHEX", ".IHX"}

// Loader is used to specify the firmware image to program.
type Loader struct {
	// filename of the image to load. can be a http or https URL
	Filename string

	// one of the Format constants
	Format string

	// expected hash of the loaded file. empty string indicates that the hash
	// is unknown and need not be validated. after a load operation the value
	// will be the hash of the loaded file
	//
	// in the case of hex files the hash is of the text file and not of the
	// flattened image
	Hash string

	// the flattened image. subsequent calls to Load() will not reload the
	// data
	Data []byte
}

// NewLoader is the preferred method of initialisation for the Loader type.
//
// The format argument will be used to set the Format field, unless the
// argument is either "AUTO" or the empty string. In which case the file
// extension is used to set the field. Files ending with ".HEX", ".IHEX" or
// ".IHX" are Intel HEX images. Any other file is treated as a raw image.
//
// Alphabetic characters in file extensions and in the format argument can be
// in upper or lower case or a mixture of both.
func NewLoader(filename string, format string) Loader {
	ld := Loader{
		Filename: filename,
		Format:   FormatRaw,
	}

	format = strings.TrimSpace(strings.ToUpper(format))
	if format != FormatAuto && format != "" {
		ld.Format = format
		return ld
	}

	switch strings.ToUpper(path.Ext(filename)) {
	case ".HEX", ".IHEX", ".IHX":
		ld.Format = FormatHex
	}

	return ld
}

// ShortName returns a shortened version of the Loader filename.
func (ld Loader) ShortName() string {
	s := path.Base(ld.Filename)
	return strings.TrimSuffix(s, path.Ext(ld.Filename))
}

// HasLoaded returns true if Load() has been successfully called.
func (ld Loader) HasLoaded() bool {
	return len(ld.Data) > 0
}

// Load the firmware image. Loader filenames with a valid scheme will use
// that method to load the data. Currently supported schemes are HTTP and
// local files.
func (ld *Loader) Load() error {
	if len(ld.Data) > 0 {
		return nil
	}

	if ld.Format != FormatRaw && ld.Format != FormatHex {
		return curated.Errorf(UnsupportedFormat, ld.Format)
	}

	raw, err := ld.fetch()
	if err != nil {
		return err
	}

	hash := fmt.Sprintf("%x", sha1.Sum(raw))
	if ld.Hash != "" && ld.Hash != hash {
		return curated.Errorf(UnexpectedHash)
	}

	var data []byte
	if ld.Format == FormatHex {
		data, err = flatten(raw)
		if err != nil {
			return err
		}
	} else {
		data = raw
	}

	if len(data) == 0 {
		return curated.Errorf(EmptyImage)
	}

	ld.Hash = hash
	ld.Data = data

	return nil
}

// read the file from wherever it is
func (ld *Loader) fetch() ([]byte, error) {
	scheme := "file"
	filename := ld.Filename

	// single letter schemes are windows drive letters
	u, err := url.Parse(ld.Filename)
	if err == nil && len(u.Scheme) > 1 {
		scheme = u.Scheme
		if scheme == "file" {
			filename = u.Path
		}
	}

	switch scheme {
	case "http", "https":
		resp, err := http.Get(ld.Filename)
		if err != nil {
			return nil, curated.Errorf(LoadError, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, curated.Errorf(LoadError, resp.Status)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, curated.Errorf(LoadError, err)
		}
		return data, nil

	case "file":
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, curated.Errorf(LoadError, err)
		}
		return data, nil
	}

	return nil, curated.Errorf(UnsupportedScheme, scheme)
}

// flatten an Intel HEX file into a binary image starting at address zero
func flatten(raw []byte) ([]byte, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(bytes.NewReader(raw)); err != nil {
		return nil, curated.Errorf(HexError, err)
	}

	var end uint32
	for _, seg := range mem.GetDataSegments() {
		end = max(end, seg.Address+uint32(len(seg.Data)))
	}

	data := bytes.Repeat([]byte{erased}, int(end))
	for _, seg := range mem.GetDataSegments() {
		copy(data[seg.Address:], seg.Data)
	}

	return data, nil
}
