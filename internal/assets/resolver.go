package assets

import "errors"

// AssetResolver tries a blog's asset directory first and falls back to the
// embedded assets for anything the directory does not provide.
type AssetResolver struct {
	custom   AssetLoader // nil without an asset path
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver. An empty customBasePath
// serves embedded assets only.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if customBasePath == "" {
		return r, nil
	}
	fsLoader, err := NewFilesystemLoader(customBasePath)
	if err != nil {
		return nil, err
	}
	r.custom = fsLoader
	return r, nil
}

// Load returns the custom asset when present, else the embedded one.
// Only not-found errors fall back; invalid names and read errors do not.
func (r *AssetResolver) Load(kind Kind, name string) (string, error) {
	if r.custom == nil {
		return r.embedded.Load(kind, name)
	}
	content, err := r.custom.Load(kind, name)
	if err == nil {
		return content, nil
	}
	if !isNotFound(err) {
		return "", err
	}
	return r.embedded.Load(kind, name)
}

// LoadStyle loads styles/<name>.css.
func (r *AssetResolver) LoadStyle(name string) (string, error) { return r.Load(Style, name) }

// LoadTemplate loads templates/<name>.html.
func (r *AssetResolver) LoadTemplate(name string) (string, error) { return r.Load(Template, name) }

// LoadScaffold loads scaffolds/<name>.md.
func (r *AssetResolver) LoadScaffold(name string) (string, error) { return r.Load(Scaffold, name) }

func isNotFound(err error) bool {
	for _, k := range kindInfo {
		if errors.Is(err, k.notFound) {
			return true
		}
	}
	return false
}

// HasCustomLoader reports whether an asset directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

var _ AssetLoader = (*AssetResolver)(nil)
