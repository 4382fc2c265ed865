/*
Package fastqcore is a minimal, dependency-light toolkit for reading
FASTQ sequencing data.

FASTQ is the flat text format nearly every sequencer and downstream
tool speaks: each read is four lines, a '@'-prefixed name, the
nucleotide sequence, a '+'-prefixed separator, and a per-base quality
string. fastqcore provides a streaming, pull-based parser over that
format, the record types it produces, and the small amount of
paired-end bookkeeping (mate-ID matching, synchronized buffer
scanning) that every paired-end tool ends up reimplementing on its own.

It deliberately does not open files, decompress streams, or align
reads; those concerns belong to the caller. See the bio/fastq
subpackage for the parser, record types, and paired-end helpers.
*/
package fastqcore
