package redis

// KeyPrefix namespaces every key written by beanstalk.
const KeyPrefix = "beanstalk:"

// Key returns the Redis key for a logical store key.
func Key(name string) string {
	return KeyPrefix + name
}

// Pattern matches every beanstalk key, for SCAN.
func Pattern() string {
	return KeyPrefix + "*"
}
