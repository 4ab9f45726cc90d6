// Package packager turns a project directory into a deployable archive.
//
// A build is a pipeline of dependent steps. When the dependency manifest has
// changed (or was never recorded) the dependencies are reinstalled into
// build/deps with pip and their test suites are pruned. The project code and
// dependencies are then zipped into build/lambda.zip and the manifest's
// modification time is recorded so the next build can skip the install.
package packager
