// Package nasr converts the FAA NASR airport and runway exports into the
// normalized airport and runway-end rows stored downstream.
//
// Both inputs are read once, front to back, and must be sorted ascending by
// site id. A Synchronizer walks the facility stream and, for each candidate
// facility, advances the runway stream to the matching key group. Facilities
// that survive the eligibility checks are written with one row per runway end.
package nasr
