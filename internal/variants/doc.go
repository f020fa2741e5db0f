// Package variants groups the arena content packages. Each subpackage
// registers one arena with the registry from its init function; import
// them for side effects.
package variants
