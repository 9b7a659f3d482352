package cmd

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	SpeedyBaseURL  string
	SpeedyUserName string
	SpeedyPassword string

	// ShippingFlatRate is the flat shipping fee added to every order.
	ShippingFlatRate float64
}
