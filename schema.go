package params

// SchemaFormat identifies the representation a schema document encodes.
type SchemaFormat string

const (
	// SchemaFormatDescriptors represents the flat parameter descriptions.
	SchemaFormatDescriptors SchemaFormat = "descriptors"
	// SchemaFormatJSONSchema represents a JSON Schema for a settings file.
	SchemaFormatJSONSchema SchemaFormat = "jsonschema"
)

// SchemaDocument encapsulates a generated schema alongside its format.
// Document must be JSON-serialisable.
type SchemaDocument struct {
	Format   SchemaFormat
	Document any
}

// SchemaGenerator turns parameter descriptions into a schema document.
// Implementations must be safe for concurrent use and return an empty
// document for empty input.
type SchemaGenerator interface {
	Generate(descriptions []Description) (SchemaDocument, error)
}

// DefaultSchemaGenerator returns the built-in descriptor generator.
func DefaultSchemaGenerator() SchemaGenerator {
	return descriptorGenerator{}
}

type descriptorGenerator struct{}

func (descriptorGenerator) Generate(descriptions []Description) (SchemaDocument, error) {
	doc := make([]Description, len(descriptions))
	copy(doc, descriptions)
	return SchemaDocument{
		Format:   SchemaFormatDescriptors,
		Document: doc,
	}, nil
}
