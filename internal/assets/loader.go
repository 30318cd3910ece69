package assets

// Kind selects an asset family: its directory, file extension and
// not-found error.
type Kind int

// Asset kinds.
const (
	Style    Kind = iota // styles/<name>.css
	Template             // templates/<name>.html
	Scaffold             // scaffolds/<name>.md
)

var kindInfo = [...]struct {
	dir, ext string
	notFound error
}{
	Style:    {"styles", ".css", ErrStyleNotFound},
	Template: {"templates", ".html", ErrTemplateNotFound},
	Scaffold: {"scaffolds", ".md", ErrScaffoldNotFound},
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindInfo) {
		return "unknown"
	}
	return kindInfo[k].dir
}

// file returns the slash-separated path of name inside an asset root.
func (k Kind) file(name string) string {
	return kindInfo[k].dir + "/" + name + kindInfo[k].ext
}

// AssetLoader loads assets by kind and name (without extension).
// Missing assets give the kind's not-found error; unsafe names give
// ErrInvalidAssetName.
type AssetLoader interface {
	Load(kind Kind, name string) (string, error)
}

// checkKind rejects kinds outside the table before any lookup.
func checkKind(k Kind, name string) error {
	if k < 0 || int(k) >= len(kindInfo) {
		return ErrUnknownKind
	}
	return ValidateAssetName(name)
}
