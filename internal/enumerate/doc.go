// Package enumerate builds file manifests. It walks a root directory,
// collects the root-relative path of every file except the manifest itself,
// orders the paths according to an explicit policy, and writes them one per
// line into a manifest file stored under the same root.
package enumerate
