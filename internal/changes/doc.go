// Package changes decides whether the dependency manifest (requirements.txt)
// changed since dependencies were last installed and packaged.
//
// The check is timestamp only. The manifest's modification time, truncated to
// whole seconds, is compared with the value recorded in the project file. Any
// difference counts as a change, including a manifest restored to an older
// timestamp, and a project with no recorded state is always treated as
// changed.
package changes
