package tools

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
	"go.uber.org/zap"

	"github.com/S-Pillow/bulk-whois-rdap-lookup/models"
)

const (
	dnsQueryTimeout = 5 * time.Second
	fallbackServer  = "8.8.8.8"
	resolvConfPath  = "/etc/resolv.conf"
)

// ValidRecordType reports whether s names a DNS record type miekg/dns
// knows about.
func ValidRecordType(s string) bool {
	_, ok := dns.StringToType[strings.ToUpper(strings.TrimSpace(s))]
	return ok
}

// SystemNameserver returns the first resolver from /etc/resolv.conf,
// falling back to Google DNS when none can be read.
func SystemNameserver() string {
	conf, err := dns.ClientConfigFromFile(resolvConfPath)
	if err != nil || len(conf.Servers) == 0 {
		zap.L().Warn("no system nameservers found, falling back to Google DNS",
			zap.String("fallback", fallbackServer), zap.Error(err))
		return fallbackServer
	}
	return conf.Servers[0]
}

// DigQuery sends a single recursive UDP query for domain/recordType to
// nameserver and renders the response in dig's text format. Errors are
// reported inside the result text rather than as an error value, so one
// bad nameserver does not fail the whole request.
func DigQuery(domain, nameserver, recordType string) models.DNSQueryResult {
	if strings.TrimSpace(nameserver) == "" || nameserver == "system_default" {
		nameserver = SystemNameserver()
	}
	result := models.DNSQueryResult{NameServer: nameserver}

	rtype, ok := dns.StringToType[strings.ToUpper(strings.TrimSpace(recordType))]
	if !ok {
		result.Text = fmt.Sprintf("Error: Unknown record type '%s'", recordType)
		return result
	}

	ips, err := net.LookupIP(nameserver)
	if err != nil {
		result.Text = fmt.Sprintf("Error: Could not resolve nameserver %s (%v)", nameserver, err)
		return result
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), rtype)
	msg.RecursionDesired = true

	client := &dns.Client{Net: "udp", Timeout: dnsQueryTimeout}

	for _, ip := range ips {
		resp, rtt, err := client.Exchange(msg, net.JoinHostPort(ip.String(), "53"))
		if err != nil {
			zap.L().Warn("dns query attempt failed",
				zap.String("nameserver", ip.String()),
				zap.String("domain", domain),
				zap.Error(err))
			continue
		}
		result.IsAuthoritative = resp.Authoritative
		result.Text = renderDigOutput(domain, nameserver, ip.String(), recordType, resp, rtt)
		return result
	}

	result.Text = fmt.Sprintf("Error: No valid response from any IP of nameserver %s", nameserver)
	return result
}

// renderDigOutput formats a DNS response the way dig prints one.
func renderDigOutput(domain, nameserver, serverIP, recordType string, resp *dns.Msg, rtt time.Duration) string {
	var b strings.Builder

	fmt.Fprintf(&b, "; <<>> DiG 9 <<>> @%s %s %s\n", nameserver, domain, recordType)
	b.WriteString(";; global options: +cmd\n")
	fmt.Fprintf(&b, ";; ->>HEADER<<- opcode: %s, status: %s, id: %d\n",
		dns.OpcodeToString[resp.Opcode], dns.RcodeToString[resp.Rcode], resp.Id)

	flags := responseFlags(resp)
	fmt.Fprintf(&b, ";; flags: %s; QUERY: %d, ANSWER: %d, AUTHORITY: %d, ADDITIONAL: %d\n",
		strings.Join(flags, " "), len(resp.Question), len(resp.Answer), len(resp.Ns), len(resp.Extra))

	if resp.RecursionDesired && !resp.RecursionAvailable {
		b.WriteString(";; WARNING: recursion requested but not available\n")
	}

	b.WriteString("\n;; QUESTION SECTION:\n")
	for _, q := range resp.Question {
		fmt.Fprintf(&b, ";%s\n", q.String())
	}

	if len(resp.Answer) > 0 {
		b.WriteString("\n;; ANSWER SECTION:\n")
		for _, rr := range resp.Answer {
			b.WriteString(rr.String() + "\n")
		}
	} else {
		b.WriteString("\n;; No answer section.\n")
	}

	if len(resp.Ns) > 0 {
		b.WriteString("\n;; AUTHORITY SECTION:\n")
		for _, rr := range resp.Ns {
			b.WriteString(rr.String() + "\n")
		}
	} else {
		b.WriteString("\n;; No authority section.\n")
	}

	if len(resp.Extra) > 0 {
		b.WriteString("\n;; ADDITIONAL SECTION:\n")
		for _, rr := range resp.Extra {
			b.WriteString(rr.String() + "\n")
		}
	}

	fmt.Fprintf(&b, "\n;; Query time: %d msec\n", rtt.Milliseconds())
	fmt.Fprintf(&b, ";; SERVER: %s#53(%s)\n", serverIP, nameserver)
	fmt.Fprintf(&b, ";; WHEN: %s\n", time.Now().Format("Mon Jan 02 15:04:05 2006"))
	fmt.Fprintf(&b, ";; MSG SIZE  rcvd: %d", resp.Len())

	return b.String()
}

func responseFlags(resp *dns.Msg) []string {
	var flags []string
	if resp.Response {
		flags = append(flags, "qr")
	}
	if resp.Authoritative {
		flags = append(flags, "aa")
	}
	if resp.Truncated {
		flags = append(flags, "tc")
	}
	if resp.RecursionDesired {
		flags = append(flags, "rd")
	}
	if resp.RecursionAvailable {
		flags = append(flags, "ra")
	}
	return flags
}
