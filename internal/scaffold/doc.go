// Package scaffold creates new function projects from a template directory.
// It powers the "lamlight create" command: files are copied verbatim, files
// ending in .tmpl are rendered with text/template, and an empty dependency
// manifest is created when the template does not ship one.
package scaffold
