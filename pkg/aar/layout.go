package aar

import "strings"

// Well-known entries of the packaged archive layout. Only ClassesJar matters
// to repackaging; the rest are reported by Inspect.
const (
	ClassesJar   = "classes.jar"
	ManifestFile = "AndroidManifest.xml"
	RTxtFile     = "R.txt"
	ProguardFile = "proguard.txt"
	LibsDir      = "libs/"
	ResDir       = "res/"
	AssetsDir    = "assets/"
	JniDir       = "jni/"
)

// Kind classifies an entry by where it sits in the packaged layout.
type Kind int

const (
	KindOther Kind = iota
	KindClasses
	KindManifest
	KindLib
	KindResource
	KindAsset
	KindNative
	KindMetadata
)

// String returns a short label for tables.
func (k Kind) String() string {
	switch k {
	case KindClasses:
		return "classes"
	case KindManifest:
		return "manifest"
	case KindLib:
		return "lib"
	case KindResource:
		return "res"
	case KindAsset:
		return "asset"
	case KindNative:
		return "jni"
	case KindMetadata:
		return "meta"
	default:
		return "other"
	}
}

// Classify returns the Kind of the entry with the given slash-separated name.
func Classify(name string) Kind {
	switch {
	case name == ClassesJar:
		return KindClasses
	case name == ManifestFile:
		return KindManifest
	case isEmbeddedLib(name):
		return KindLib
	case strings.HasPrefix(name, ResDir):
		return KindResource
	case strings.HasPrefix(name, AssetsDir):
		return KindAsset
	case strings.HasPrefix(name, JniDir):
		return KindNative
	case name == RTxtFile || name == ProguardFile || strings.HasPrefix(name, "META-INF/"):
		return KindMetadata
	default:
		return KindOther
	}
}

// isEmbeddedLib matches libs/<name>.jar directly under libs/.
func isEmbeddedLib(name string) bool {
	if !strings.HasPrefix(name, LibsDir) || !strings.HasSuffix(name, ".jar") {
		return false
	}
	return !strings.Contains(strings.TrimPrefix(name, LibsDir), "/")
}
