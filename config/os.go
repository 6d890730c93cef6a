package config

// badFileName replaces file names which are empty after cleaning.
const badFileName = "_bad_file_name_"
