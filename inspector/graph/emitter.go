package graph

// Emitter renders file content, e.g. a fake header or a fake source
type Emitter interface {
	Emit(file *File) ([]byte, error)
}
