package schema

// Custom string types for type safety.
type (
	// SeriesKind represents the tracker metric a series is built from.
	SeriesKind string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// CategoryKind represents the grouping dimension a category belongs to.
	CategoryKind string
)

// All series kinds supported.
const (
	EstimateKind SeriesKind = "estimate" // remaining estimate at each date
	SpentKind    SeriesKind = "spent"    // cumulative spent hours at each date
	OriginalKind SeriesKind = "original" // initial estimates of issues open at each date
	BurnKind     SeriesKind = "burn"     // original estimates of issues closed by each date
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All category kinds supported.
const (
	QueueCategory     CategoryKind = "Queue"
	ComponentCategory CategoryKind = "Component"
	TagCategory       CategoryKind = "Tag"
)

// ValidNoiseMethods maps valid noise-estimation method tags for validation.
// The engine-side enum lives in core/segment; this set only gates raw input.
var ValidNoiseMethods = map[string]struct{}{
	"residuals":        {},
	"differences":      {},
	"residuals_smooth": {},
	"smooth":           {},
}

// ValidClampDirections maps valid projector clamp directions for validation.
var ValidClampDirections = map[string]struct{}{
	"none": {},
	"down": {},
	"up":   {},
}

// ValidSeriesKinds maps valid series kinds for validation.
var ValidSeriesKinds = map[SeriesKind]struct{}{
	EstimateKind: {},
	SpentKind:    {},
	OriginalKind: {},
	BurnKind:     {},
}

// ValidOutputModes maps valid output modes for validation.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends maps valid database backends for validation.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
