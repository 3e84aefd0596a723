// Package catalog discovers packages and their categorized modules from a
// tree of manifests and answers queries over the result.
//
// A Catalog reads the manifest at its root, expands the sub-package globs
// declared under discoverable.packages, and builds one Package per matched
// directory whose manifest declares discoverable.modules. Each Package groups
// its Modules by type, in declaration order then glob match order.
//
// Discovery runs at most once per Catalog; concurrent callers wait for the
// same pass. Modules load lazily through a pluggable loader.Loader and cache
// the first successful result.
package catalog
