package meta

import (
	"github.com/VictoriaMetrics/metrics"

	"github.com/kvbridge/kvbridge/lib/document"
	"github.com/kvbridge/kvbridge/lib/engine"
	"github.com/kvbridge/kvbridge/lib/status"
	"github.com/kvbridge/kvbridge/lib/wtconfig"
)

// appMetadataKey is the top-level configuration key under which the
// application stores its own metadata struct.
const appMetadataKey = "app_metadata"

var (
	lookupsTotal      = metrics.NewCounter("kvbridge_metadata_lookups_total")
	versionChecks     = metrics.NewCounter("kvbridge_metadata_version_checks_total")
	versionCheckFails = metrics.NewCounter("kvbridge_metadata_version_check_failures_total")
)

// --------------------------------------------------------------------------
// Service
// --------------------------------------------------------------------------

// Service reads object metadata through an engine session and materializes
// it as typed documents.
//
// Thread-safety: a Service holds no state beyond the session; it is exactly
// as concurrency-safe as the session it wraps, which by contract must not be
// used from multiple goroutines at once.
type Service struct {
	session engine.Session
}

// NewService creates a metadata service over the given session.
func NewService(session engine.Session) *Service {
	if session == nil {
		status.Fatalf("metadata service requires a session")
	}
	return &Service{session: session}
}

// GetMetadata returns the engine-native configuration string for the object
// identified by uri. A missing object yields NoSuchKey; every other nonzero
// engine code is routed through the status translator.
func (s *Service) GetMetadata(uri string) (string, error) {
	lookupsTotal.Inc()

	cursor, code := s.session.OpenMetadataCursor()
	if code != engine.CodeOK {
		return "", status.FromEngineCode(code, "unable to open metadata cursor.")
	}
	defer cursor.Close()

	if code := cursor.Seek(uri); code != engine.CodeOK {
		if code == engine.CodeNotFound {
			return "", status.Errorf(status.CodeNoSuchKey,
				"unable to find metadata for %s", uri)
		}
		return "", status.FromEngineCode(code, "")
	}

	value, code := cursor.Value()
	if code != engine.CodeOK {
		return "", status.FromEngineCode(code, "")
	}
	return value, nil
}

// GetApplicationMetadata parses the "app_metadata" struct out of an object's
// configuration string and returns it as a typed document.
//
// A configuration string without app_metadata yields an empty document, not
// an error: objects created before the application wrote any metadata are
// valid. Duplicate keys inside the struct are a parse error, never a silent
// overwrite.
func (s *Service) GetApplicationMetadata(uri string) (*document.Document, error) {
	raw, err := s.GetMetadata(uri)
	if err != nil {
		return nil, err
	}

	top := wtconfig.NewParser(raw)
	appMetadata, err := top.Get(appMetadataKey)
	if err != nil {
		if status.CodeOf(err) == status.CodeNotFoundInConfig {
			return document.New(), nil
		}
		return nil, err
	}
	if appMetadata.Type != wtconfig.ItemStruct {
		return nil, status.Errorf(status.CodeFailedToParse,
			"%s must be a nested struct. Actual value: %s", appMetadataKey, appMetadata.Str)
	}

	parser, err := wtconfig.NewStructParser(appMetadata)
	if err != nil {
		return nil, err
	}

	builder := document.NewBuilder()
	for {
		key, value, ok, err := parser.Next()
		if err != nil {
			return nil, status.Wrap(status.CodeFailedToParse, err,
				"malformed "+appMetadataKey+" for "+uri)
		}
		if !ok {
			break
		}

		if builder.Has(key.Str) {
			return nil, status.Errorf(status.CodeDuplicateKey,
				"%s must not contain duplicate keys. Found multiple instances of key '%s'.",
				appMetadataKey, key.Str)
		}

		switch value.Type {
		case wtconfig.ItemBool:
			builder.AppendBool(key.Str, value.Bool())
		case wtconfig.ItemNum:
			builder.AppendInt64(key.Str, value.Val)
		default:
			builder.AppendString(key.Str, value.Str)
		}
	}
	return builder.Doc(), nil
}

// CheckApplicationMetadataFormatVersion verifies that an object's metadata
// format version lies within [minVersion, maxVersion].
//
// A missing object propagates NoSuchKey as-is - genuine absence is the
// caller's concern. Any other metadata fetch failure here is treated as a
// broken invariant and aborts: version checks run against objects the system
// just observed, so the metadata row must exist and parse.
//
// Metadata without a "formatVersion" field defaults to version 1, the format
// in use before versioning was introduced.
func (s *Service) CheckApplicationMetadataFormatVersion(uri string, minVersion, maxVersion int64) error {
	versionChecks.Inc()

	raw, err := s.GetMetadata(uri)
	if err != nil {
		if status.CodeOf(err) == status.CodeNoSuchKey {
			return err
		}
		status.InvariantOK(err)
	}

	top := wtconfig.NewParser(raw)
	appMetadata, err := top.Get(appMetadataKey)
	if err != nil {
		versionCheckFails.Inc()
		return status.Errorf(status.CodeUnsupportedFormat,
			"application metadata for %s is missing", uri)
	}

	parser, err := wtconfig.NewStructParser(appMetadata)
	if err != nil {
		versionCheckFails.Inc()
		return err
	}

	version := int64(1)
	versionItem, err := parser.Get("formatVersion")
	switch {
	case err != nil && status.CodeOf(err) == status.CodeNotFoundInConfig:
		// metadata written before format versioning existed is version 1
	case err != nil:
		versionCheckFails.Inc()
		return err
	case versionItem.Type == wtconfig.ItemNum:
		version = versionItem.Val
	default:
		versionCheckFails.Inc()
		return status.Errorf(status.CodeUnsupportedFormat,
			"'formatVersion' in application metadata for %s must be a number. Current value: %s",
			uri, versionItem.Str)
	}

	if version < minVersion || version > maxVersion {
		versionCheckFails.Inc()
		return status.Errorf(status.CodeUnsupportedFormat,
			"Application metadata for %s has unsupported format version %d", uri, version)
	}
	return nil
}
