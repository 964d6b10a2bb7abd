package aarpath

const (
	// AarExtension is the extension of packaged Android archives
	AarExtension = ".aar"

	// JarExtension is the extension given to repackaged outputs
	JarExtension = ".jar"

	// ExplodedDir is the name of the directory under the output directory
	// that holds extracted archives
	ExplodedDir = "exploded"
)
