/*
 * doc.go, part of gosro.
 *
 * Copyright 2024 The gosro Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

/*
Package btf implements the bond trajectory format, a simple format to store, for each frame
of a trajectory, its time, the species label of each atom, and the bond list, after the bonds
have been built by whatever program reads the coordinates. The format is modeled after goChem's
simple trajectory format (stf), and, like it, aims to be trivial to write from other programs.

******************** Format Specification   ***************************************************

A BTF file may only contain ASCII symbols, and is compressed. The compression is given by the
last letter of the file name: 'f' or 's' (i.e. .btf or .bts) for z-standard, 'z' for gzip, 'r' for
raw deflate and 'l' for LZW. Anything else is read and written as z-standard.

A BTF file has a "header" starting in the first line, and ending with a line that starts with the
characters "**" followed by one or more spaces, and the number of atoms per frame. Each line
of the header before that must be a pair key=value. The header may be empty, except for the
"**" line. The key "typemap", if present, maps species labels to names, as comma-separated
label:name items, for example:

typemap=1:Fe,2:Ni,3:Cr

Each frame has:

A line starting with the character '>', followed by one or more spaces, the time of the frame
as a floating-point number, one or more spaces, and the number of bonds in the frame, M.

One line with the species label, a positive integer, of each atom, separated by spaces.

M lines, each with the two 0-based indexes of the atoms forming a bond, separated by spaces.
Each bond appears once, in any orientation.

A line starting with the character '*'.

***************************************************************************************************/
package btf
