// 19 October 2026

/*
Fragmatch reads protein backbones and works on characteristic vectors
(CVs), the mean CA and mean O positions over windows of residues.

Usage:
	fragmatch cv file
	fragmatch annotate [-t] file [file...]
	fragmatch match [flags] reference target [target...]

cv prints the CVs of a structure. A star after the CV length marks a
window that runs over a chain break.

annotate labels every residue H, E or C and lists the fragments, the
sheet of each strand and, with -t, the minimum spanning tree of the
fragment graph.

match looks for the helix and strand fragments of the reference in each
target. Targets are read in parallel (-w). A target that cannot be read
is reported and the others carry on.

Files may be PDB or mmCIF, gzipped or not. Settings can come from a
file (-s), from environment variables like FRAGMATCH_MATCH_SIMILARITY
or from flags, flags winning.
*/
package main
