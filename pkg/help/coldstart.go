package help

const ColdstartYAML = `# line-index Quick Start

input:
  path: "line-index index book.txt --words cat,mat"
  stdin: "cat book.txt | line-index index - --words cat"
  url: "line-index index https://example.com/page --input-format article --words cat"

input_formats:
  text: "Index the bytes as they are (default)"
  html: "Strip tags first, one line per block element"
  article: "Extract the main article with readability, then strip tags"

query_words:
  inline: "--words cat,mat --words dog"
  file: "--words-file words.txt   # leading letters of every token"
  stopwords: "--skip-stopwords        # drop the, and, of ..."
  rules: "letters and apostrophes only, matched case-insensitively"

engine:
  chunk_size: "--chunk-size 1048576   # chunks end on whitespace"
  workers: "--workers 4"
  partitions: "--partitions 4"
  combine: "--combine=false         # skip the per-chunk merge"
  reduce_batch: "--reduce-batch 64    # fold values in batches"

stores:
  memory: "--store memory (default)"
  sqlite: "--store sqlite --sqlite-path /tmp/run.db"
  redis: "--store redis --redis-addr localhost:6379"

output:
  text: "WORD - line line line (default, --limit lines per word)"
  json: "--format json"
  yaml: "--format yaml"
  file: "--output result.json"

commands:
  plan: |
    line-index split book.txt --chunk-size 65536 --suggest 20

  config_file: |
    line-index index --config index.yaml   # flags override file values

exit_codes:
  0: "success"
  1: "input error (bad flags, unreadable document, empty or malformed query)"
  2: "runtime error (store or engine failure)"
`
