package network

import (
	"net"
	"sync"
)

var (
	localIPOnce sync.Once
	localIP     string
	localIPErr  error
)

// LocalIP is the address this host uses for outbound traffic. Dialing UDP sends
// no packets, it only asks the kernel for a route.
func LocalIP() (string, error) {
	localIPOnce.Do(func() {
		conn, err := net.Dial("udp4", "8.8.8.8:53")
		if err != nil {
			localIPErr = err
			return
		}
		defer conn.Close()
		localIP = conn.LocalAddr().(*net.UDPAddr).IP.String()
	})
	return localIP, localIPErr
}

// AdvertisedAddr fills in the host of a wildcard listen address so it can be
// shown to users starting a panel.
func AdvertisedAddr(listenAddr string) string {
	host, port, err := net.SplitHostPort(listenAddr)
	if err != nil || (host != "" && host != "0.0.0.0" && host != "::") {
		return listenAddr
	}
	ip, err := LocalIP()
	if err != nil {
		return listenAddr
	}
	return net.JoinHostPort(ip, port)
}
