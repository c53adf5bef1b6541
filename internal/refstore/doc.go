// Package refstore persists reference lists to per-title text files.
// Each page title maps to exactly one file in the output directory,
// named after the sanitized title. Writing the same title twice
// overwrites the earlier file, so concurrent writers racing on a
// colliding filename settle as last-writer-wins.
package refstore
