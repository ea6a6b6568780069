// 18 Oct 2026

/*
Smear summarises many alignments against one anchor sequence. For each
stretch of the anchor it counts how many alignments cover it and how many
have a gap there, and writes the counts as runs of equal value.

Usage:

	smear build [flags] input
	smear runs [flags] input
	smear stats [flags] input
	smear simulate [flags] output

The input is a SAM file, a GFF file of match features or an aligned fasta
file. The format is guessed from the extension or set with --format.

build writes a csv file with the columns "track","from","to","value" for
the coverage (seg) and gap maps of each smear, and with --png a picture.
runs writes the runs of one map. stats prints a table of coverage
statistics. simulate writes a random alignment for testing.

Settings can also come from a config file (--config, yaml, toml or json)
or from environment variables such as SMEAR_WINDOW or SMEAR_MIN_MAPQ.
Flags win over the environment, which wins over the file.

An interrupt stops reading. Whatever was read so far is written out.
*/
package main
