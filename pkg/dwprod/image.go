package dwprod

// image is the raw content of a binary, owned by a File.
type image struct {
	data    []byte
	release func() error
}

func (i *image) close() error {
	if i == nil || i.release == nil {
		return nil
	}
	release := i.release
	i.release = nil
	i.data = nil
	return release()
}
