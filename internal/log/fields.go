package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldRecordID  = "record_id"
	FieldKind      = "kind"
	FieldGross     = "gross"
	FieldVATRate   = "vat_rate"
	FieldCategory  = "category"
	FieldRange     = "range"
	FieldCount     = "count"
	FieldPath      = "path"
	FieldBackend   = "backend"
	FieldFile      = "file"
	FieldFormat    = "format"
)

// Component names
const (
	ComponentApp      = "app"
	ComponentRecords  = "records"
	ComponentStorage  = "storage"
	ComponentImporter = "importer"
	ComponentReceipt  = "receipt"
	ComponentConfig   = "config"
)

// Operation names
const (
	OpLoad     = "load"
	OpAppend   = "append"
	OpDelete   = "delete"
	OpMigrate  = "migrate"
	OpImport   = "import"
	OpValidate = "validate"
	OpParse    = "parse"
)
