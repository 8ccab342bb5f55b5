/* Package main: goexpand -- a self modifying word expansion language

Programs are plain text, read one word at a time.  Words are separated by
separator characters (initially ASCII whitespace), except that a "unique"
character always forms a word on its own (initially there are none).

Every word read is looked up as a variable.  A variable holds either text or
one of eight builtin instructions.  Text is not data here: when a word
resolves to text, that text is pushed back into the program as new source,
read ahead of whatever follows the word.  An undefined variable is empty
text, so an unknown word simply expands to nothing.  This makes every
variable a macro, and reading a word is the same thing as calling it.

Expansion layers program text on a stack of contexts, each with its own read
position.  Once the innermost context runs out of words, reading falls
through to the one beneath it; there is no explicit return, and expansion may
nest as deep as memory allows.

The only operand storage is two buffers of words, primary and secondary.
Instructions work on the last word of a buffer, its top.

System variables

Names beginning with the system variable prefix (initially "$") are resolved
through a fixed table rather than the variable store.  The instructions are
only reachable this way, though a variable may be made to hold one with $& :

  Name  Instruction      Effect
  $:    SwapBuffer       exchange the primary and secondary buffers
  $"    SkipNext         append the next word, unresolved, to primary
  $!    ExpandPrevious   pop a word; re-run it if it names an instruction,
                         else append the words of its text to primary
  $?    CrazySwap        trade the next two program words with the top two
                         primary words
  $,    JoinValues       concatenate the top two primary words
  $;    EndLine          assign secondary (joined by spaces) the value of
                         primary (joined by spaces), clearing both
  $&    DereferenceLast  replace the variable named by the top primary word
                         with the value of the variable its text names
  $<    IfLess           pop top and next; skip the next program word unless
                         next sorts before top, by code point

Other system variables read live state:

  $n  last assigned name          $v  last assigned value
  $p  current file path           $f  contents of the file at $p
  $u  unique characters           $s  separator characters
  $S  primary separator           $$  the prefix itself

Assigning (with $;) to a system variable has a side effect instead:

  $o  write the value and a newline to output
  $p  set the file path
  $u $s $S $$  replace the corresponding setting, effective on the next word

Reading $i or $I (input), or assigning $c (console commands) or $f (file
contents), halts the program: these are not yet implemented.

A small example, which prints "hello":

  $" $o $: $" hello $;

$" appends "$o" to primary, $: moves it into secondary, $" appends "hello",
and $; assigns "$o" the value "hello".
*/
package main
