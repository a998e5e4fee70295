// Package trustcenter serves the public trust center portal: the catalog
// of published compliance artifacts (audit reports, certificates) backed
// by a content directory on disk. A filesystem watcher keeps the catalog
// current as files are published or withdrawn.
package trustcenter
