package strategy

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"savesync/internal/logger"
	"savesync/internal/model"

	"go.uber.org/zap"
)

const NameArchive = "archive"

const (
	metadataFile   = "saveinfo.xml"
	autosavePrefix = "autosave_"
	fieldSaveName  = "UserSaveName"
	fieldTimestamp = "RealTimestamp"

	// RealTimestamp format inside saveinfo.xml: MM/DD/YYYY HH:MM:SS
	timestampLayout = "01/02/2006 15:04:05"
)

// Archive handles zip-packaged saves carrying a saveinfo.xml metadata
// document (Pillars of Eternity style). The on-disk file name changes with
// the in-game location, so the identity is the UserSaveName field embedded
// in the archive, and the timestamp is the RealTimestamp field.
type Archive struct{}

func (*Archive) Name() string {
	return NameArchive
}

func (*Archive) Identity(path string) model.Identity {
	name := filepath.Base(path)

	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		// no internal whitespace means the file does not follow the
		// "<location> <token>.<suffix>" naming scheme
		return model.IdentityEmpty
	}

	if strings.HasPrefix(name[idx+1:], autosavePrefix) {
		return model.IdentityIgnore
	}

	value, err := readMetadataField(path, fieldSaveName)
	if err != nil {
		logger.Log.Debug("failed to extract save name",
			zap.String("path", path),
			zap.Error(err))
		return model.IdentityEmpty
	}

	return model.Identity(value)
}

func (*Archive) Timestamp(path string) float64 {
	value, err := readMetadataField(path, fieldTimestamp)
	if err != nil {
		logger.Log.Debug("failed to extract save timestamp",
			zap.String("path", path),
			zap.Error(err))
		return 0
	}

	t, err := time.ParseInLocation(timestampLayout, value, time.Local)
	if err != nil {
		logger.Log.Debug("failed to parse save timestamp",
			zap.String("path", path),
			zap.String("value", value),
			zap.Error(err))
		return 0
	}

	return float64(t.Unix())
}

// simpleElement is one <Simple name="..." value="..."/> entry of the
// metadata document.
type simpleElement struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

func readMetadataField(path, field string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}

	defer func(zr *zip.ReadCloser) {
		_ = zr.Close()
	}(zr)

	for _, f := range zr.File {
		if f.Name != metadataFile {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", metadataFile, err)
		}

		value, err := findSimpleValue(rc, field)
		_ = rc.Close()
		return value, err
	}

	return "", fmt.Errorf("archive has no %s", metadataFile)
}

func findSimpleValue(r io.Reader, field string) (string, error) {
	dec := xml.NewDecoder(r)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return "", fmt.Errorf("metadata field %q not found", field)
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse %s: %w", metadataFile, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Simple" {
			continue
		}

		var elem simpleElement
		if err := dec.DecodeElement(&elem, &start); err != nil {
			return "", fmt.Errorf("failed to parse %s: %w", metadataFile, err)
		}

		if elem.Name == field {
			return elem.Value, nil
		}
	}
}
