// Package projectconf reads and writes the per-project configuration file
// (.lamlight.conf). The file is INI formatted with one section per concern:
// LAMBDA_FUNCTION binds the project to a remote function, PROJECT_DETAILS
// holds the dependency manifest state used to skip redundant installs, and
// LAMLIGHT records the tool version that scaffolded the project.
//
// Saves always rewrite the whole file. Callers load, mutate and save.
package projectconf
