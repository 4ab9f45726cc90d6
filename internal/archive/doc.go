// Package archive moves code packages in and out of zip files. Fetcher pulls
// a remote archive into a fresh temporary directory, Extract unpacks one into
// a project directory, and Pack builds the deployment archive from the
// project code and its installed dependencies.
package archive
